package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/jsonviz/pkg/expansion"
)

func press(t *testing.T, m exploreModel, keys ...tea.KeyMsg) exploreModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(exploreModel)
	}
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func rowPaths(m exploreModel) []string {
	out := make([]string, len(m.rows))
	for i, r := range m.rows {
		out[i] = r.path
	}
	return out
}

func TestExploreModelKeys(t *testing.T) {
	collapsed := []string{"(root)", "(root)/items", "(root)/meta"}
	tests := []struct {
		name       string
		keys       []tea.KeyMsg
		wantRows   []string
		wantCursor int
	}{
		{"initial", nil, collapsed, 0},
		{"expand all", []tea.KeyMsg{runeKey('e')}, []string{
			"(root)", "(root)/items", "(root)/items/0", "(root)/items/1", "(root)/meta", "(root)/meta/tags",
		}, 0},
		{"collapse all", []tea.KeyMsg{runeKey('e'), runeKey('c')}, collapsed, 0},
		{"toggle selected", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyEnter}}, []string{
			"(root)", "(root)/items", "(root)/items/0", "(root)/items/1", "(root)/meta",
		}, 1},
		{"collapse keeps cursor", []tea.KeyMsg{runeKey('j'), runeKey('l'), {Type: tea.KeyLeft}}, collapsed, 1},
		{"left moves to parent", []tea.KeyMsg{runeKey('j'), {Type: tea.KeyLeft}}, collapsed, 0},
		{"depth", []tea.KeyMsg{runeKey('2')}, []string{
			"(root)", "(root)/items", "(root)/items/0", "(root)/items/1", "(root)/meta", "(root)/meta/tags",
		}, 0},
		{"cursor clamps", []tea.KeyMsg{runeKey('G'), {Type: tea.KeyDown}, {Type: tea.KeyDown}}, collapsed, 2},
		{"cursor follows path after collapse above", []tea.KeyMsg{runeKey('e'), runeKey('G'), runeKey('g'), runeKey('j'), {Type: tea.KeyEnter}, runeKey('G')}, []string{
			"(root)", "(root)/items", "(root)/meta", "(root)/meta/tags",
		}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, newExploreModel("test", testTree(t), expansion.New()), tt.keys...)
			if diff := cmp.Diff(tt.wantRows, rowPaths(m)); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
			if m.cursor != tt.wantCursor {
				t.Errorf("cursor = %d, want %d", m.cursor, tt.wantCursor)
			}
		})
	}
}

func TestExploreModelQuit(t *testing.T) {
	m := newExploreModel("test", testTree(t), expansion.New())
	for _, k := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyEsc}} {
		if _, cmd := m.Update(k); cmd == nil {
			t.Errorf("%s: expected quit command", k)
		}
	}
}

func TestExploreModelView(t *testing.T) {
	m := newExploreModel("data.json", testTree(t), expansion.New())
	view := m.View()
	for _, want := range []string{"data.json", "(root)", "items", "[2]", `"demo"`, "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("ünïcödé string", 5); len([]rune(got)) > 5 {
		t.Errorf("truncate long = %q", got)
	}
}
