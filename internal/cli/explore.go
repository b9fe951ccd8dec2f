package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/expansion"
	"github.com/matzehuels/jsonviz/pkg/hierarchy"
	"github.com/matzehuels/jsonviz/pkg/pipeline"
	"github.com/matzehuels/jsonviz/pkg/source"
	"github.com/matzehuels/jsonviz/pkg/value"
)

// Outline styles
var (
	outlineSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	outlineNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	outlineDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	maxFieldRows   = 8
	maxValueLength = 48
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		output      string
		inputFormat string
	)

	cmd := &cobra.Command{
		Use:   "explore <input>",
		Short: "Browse a document as a collapsible outline in the terminal",
		Long: `Browse a document as a collapsible outline in the terminal.

The outline shows the same containers the diagram would draw: expand and
collapse them with enter, expand everything with e, collapse with c, or
expand to a fixed depth with 1-9. The primitive fields of the selected
container are listed below the outline.

With --output, the final view is rendered when you quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == source.Stdin {
				return errors.New(errors.ErrCodeUnsupported, "explore reads keys from standard input; pass a file or URL")
			}
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return errors.New(errors.ErrCodeUnsupported, "explore needs an interactive terminal")
			}
			return c.runExplore(cmd.Context(), args[0], inputFormat, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "render the final view to this file (format from extension)")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "input format: json, yaml or auto")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, input, inputFormat, output string) error {
	format := pipeline.FormatSVG
	if output != "" {
		format = strings.TrimPrefix(filepath.Ext(output), ".")
		if err := pipeline.ValidateFormat(format); err != nil {
			return err
		}
	}

	runner := c.newRunner(ctx, false)
	defer runner.Close()

	doc, err := c.newLoader(runner.Cache, inputFormat).Load(ctx, input)
	if err != nil {
		return err
	}
	tree, err := pipeline.BuildTree(ctx, doc.Value)
	if err != nil {
		return err
	}

	model := newExploreModel(displayName(input), tree, expansion.New())
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	store := final.(exploreModel).store

	printInfo("%d of %d containers expanded", store.Len(), hierarchy.Measure(tree).Nodes)
	if output == "" {
		return nil
	}

	opts := c.Config.PipelineOptions()
	opts.Formats = []string{format}
	opts.Title = displayName(input)
	result, err := runner.Pass(ctx, tree, store, opts)
	if err != nil {
		return err
	}
	artifacts, err := runner.Render(ctx, result.Scene, opts)
	if err != nil {
		return err
	}
	if err := writeFile(output, artifacts[format]); err != nil {
		return err
	}
	printSuccess("Rendered final view")
	printFile(output)
	return nil
}

// =============================================================================
// exploreModel - Interactive outline
// =============================================================================

// outlineRow is one visible container.
type outlineRow struct {
	path  string
	depth int
	node  *hierarchy.Node
}

// exploreModel is the bubbletea model for the outline view.
type exploreModel struct {
	title  string
	tree   *hierarchy.Node
	store  *expansion.Store
	rows   []outlineRow
	cursor int
	offset int
	height int
}

func newExploreModel(title string, tree *hierarchy.Node, store *expansion.Store) exploreModel {
	m := exploreModel{title: title, tree: tree, store: store, height: 15}
	m.refresh()
	return m
}

// refresh rebuilds the visible rows, keeping the cursor on the same path
// when it is still visible.
func (m *exploreModel) refresh() {
	var current string
	if m.cursor < len(m.rows) {
		current = m.rows[m.cursor].path
	}

	rows := make([]outlineRow, 0, len(m.rows))
	hierarchy.Walk(m.tree, func(path string, depth int, n *hierarchy.Node) bool {
		rows = append(rows, outlineRow{path: path, depth: depth, node: n})
		return m.store.Contains(path)
	})
	m.rows = rows

	m.cursor = 0
	for i, r := range m.rows {
		if r.path == current {
			m.cursor = i
			break
		}
	}
	m.scroll()
}

// scroll keeps the cursor inside the visible window.
func (m *exploreModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	m.offset = max(0, min(m.offset, len(m.rows)-1))
}

func (m exploreModel) selected() outlineRow {
	return m.rows[m.cursor]
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.cursor = max(0, m.cursor-1)
		case "down", "j":
			m.cursor = min(len(m.rows)-1, m.cursor+1)
		case "pgup":
			m.cursor = max(0, m.cursor-m.height)
		case "pgdown":
			m.cursor = min(len(m.rows)-1, m.cursor+m.height)
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = len(m.rows) - 1
		case "enter", " ":
			m.store.Toggle(m.selected().path)
			m.refresh()
		case "right", "l":
			m.store.Expand(m.selected().path)
			m.refresh()
		case "left", "h":
			m.collapseOrParent()
		case "e":
			m.store.ExpandAll(m.tree)
			m.refresh()
		case "c":
			m.store.CollapseAll()
			m.refresh()
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			m.store.CollapseAll()
			m.store.ExpandDepth(m.tree, int(key[0]-'0'))
			m.refresh()
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.height = max(5, msg.Height-maxFieldRows-10)
		m.scroll()
	}
	return m, nil
}

// collapseOrParent collapses the selected container, or moves to its parent
// when it is already collapsed.
func (m *exploreModel) collapseOrParent() {
	row := m.selected()
	if row.depth > 0 && m.store.Contains(row.path) {
		m.store.Collapse(row.path)
		m.refresh()
		return
	}
	parent := row.path
	if i := strings.LastIndex(parent, hierarchy.Separator); i > 0 {
		parent = parent[:i]
	}
	for i, r := range m.rows {
		if r.path == parent {
			m.cursor = i
			return
		}
	}
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(outlineDimStyle.Render("↑/↓ navigate  ⏎ toggle  e expand all  c collapse  1-9 depth  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		line := m.rowLine(m.rows[i])
		switch {
		case i == m.cursor:
			b.WriteString(outlineSelectedStyle.Render("▸ " + line))
		case m.rows[i].node.IsCircular():
			b.WriteString(outlineDimStyle.Render("  " + line))
		default:
			b.WriteString(outlineNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if fields := m.fieldTable(); fields != "" {
		b.WriteString(fields)
		b.WriteString("\n")
	}
	b.WriteString(outlineDimStyle.Render(fmt.Sprintf("  [%d/%d] · %d expanded · %s",
		m.cursor+1, len(m.rows), m.store.Len(), m.selected().path)))

	return b.String()
}

// rowLine formats one outline row: marker, name, class and size.
func (m exploreModel) rowLine(r outlineRow) string {
	n := r.node
	marker := "▹"
	switch {
	case len(n.Links()) == 0:
		marker = "·"
	case m.store.Contains(r.path):
		marker = "▿"
	}

	size := fmt.Sprintf("{%d}", len(n.Fields)+len(n.Children))
	if n.Kind == hierarchy.KindArray {
		size = fmt.Sprintf("[%d]", len(n.Items))
	}
	line := strings.Repeat("  ", r.depth) + marker + " " + n.Name
	if n.Classname != "" {
		line += " (" + n.Classname + ")"
	}
	return line + " " + outlineDimStyle.Render(size)
}

// fieldTable lists the primitive fields of the selected container.
func (m exploreModel) fieldTable() string {
	n := m.selected().node
	var rows [][]string
	add := func(f hierarchy.Field) {
		rows = append(rows, []string{f.Name, truncate(value.EncodePrimitive(f.Value), maxValueLength)})
	}
	for _, f := range n.Fields {
		add(f)
	}
	for _, it := range n.Items {
		if it.Field != nil {
			add(*it.Field)
		}
	}
	if len(rows) == 0 {
		return ""
	}
	more := len(rows) - maxFieldRows
	if more > 0 {
		rows = append(rows[:maxFieldRows], []string{"…", fmt.Sprintf("%d more", more)})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Field", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1: // header
				return styleHeader.Padding(0, 1)
			case col == 0:
				return StyleNumber.Padding(0, 1)
			}
			return StyleValue.Padding(0, 1)
		}).
		Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
