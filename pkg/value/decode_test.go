package value

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/jsonviz/pkg/errors"
)

func TestDecodeYAMLKeepsOrder(t *testing.T) {
	v, err := DecodeYAML([]byte("zeta: 1\nalpha:\n  y: true\n  b: [1, 2]\n1: numeric key\n"))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "1"}, keys(v)); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	alpha, _ := v.(*Object).Get("alpha")
	if diff := cmp.Diff([]string{"y", "b"}, keys(alpha)); diff != "" {
		t.Errorf("nested order (-want +got):\n%s", diff)
	}
	b, _ := alpha.(*Object).Get("b")
	if _, ok := b.(*Array); !ok {
		t.Errorf("sequence decodes as *Array, got %T", b)
	}
}

func TestDecodeYAMLError(t *testing.T) {
	_, err := DecodeYAML([]byte("a: [1, 2\n"))
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Fatalf("err = %v, want PARSE_ERROR", err)
	}
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format string
		want   []string
	}{
		{"json explicit", `{"b":1,"a":2}`, FormatJSON, []string{"b", "a"}},
		{"yaml explicit", "b: 1\na: 2\n", FormatYAML, []string{"b", "a"}},
		{"auto json", `  {"b":1,"a":2}`, FormatAuto, []string{"b", "a"}},
		{"auto yaml", "b: 1\na: 2\n", FormatAuto, []string{"b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode([]byte(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if diff := cmp.Diff(tt.want, keys(v)); diff != "" {
				t.Errorf("keys (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := Decode([]byte("{}"), "toml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v", err)
	}
	if _, err := Decode([]byte("   "), FormatAuto); !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("empty input error = %v", err)
	}
}

func TestFormatFromName(t *testing.T) {
	tests := map[string]string{
		"data.json":             FormatJSON,
		"conf.YML":              FormatYAML,
		"https://x.io/a/b.yaml": FormatYAML,
		"notes.txt":             FormatAuto,
		"-":                     FormatAuto,
	}
	for name, want := range tests {
		if got := FormatFromName(name); got != want {
			t.Errorf("FormatFromName(%q) = %s, want %s", name, got, want)
		}
	}
	if FormatFromContentType("application/json; charset=utf-8") != FormatJSON {
		t.Error("json content type")
	}
	if FormatFromContentType("application/x-yaml") != FormatYAML {
		t.Error("yaml content type")
	}
}

func TestApplyPatch(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"zeta":1,"alpha":{"y":1,"b":2},"list":[{"q":1,"p":2}]}`))
	if err != nil {
		t.Fatal(err)
	}

	patch := `[
		{"op":"replace","path":"/zeta","value":10},
		{"op":"add","path":"/new","value":"x"},
		{"op":"remove","path":"/alpha/y"},
		{"op":"add","path":"/list/0/r","value":3}
	]`
	out, err := ApplyPatch(v, []byte(patch))
	if err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}

	data, _ := MarshalJSON(out)
	want := `{"zeta":10,"alpha":{"b":2},"list":[{"q":1,"p":2,"r":3}],"new":"x"}`
	if string(data) != want {
		t.Errorf("patched = %s\nwant      %s", data, want)
	}

	orig, _ := MarshalJSON(v)
	if string(orig) != `{"zeta":1,"alpha":{"y":1,"b":2},"list":[{"q":1,"p":2}]}` {
		t.Errorf("input was modified: %s", orig)
	}
}

func TestApplyPatchErrors(t *testing.T) {
	v := NewObject(Member{Key: "a", Value: 1})
	if _, err := ApplyPatch(v, []byte(`{"op":"add"}`)); !errors.Is(err, errors.ErrCodeInvalidPatch) {
		t.Errorf("malformed patch error = %v", err)
	}
	if _, err := ApplyPatch(v, []byte(`[{"op":"remove","path":"/missing"}]`)); !errors.Is(err, errors.ErrCodeInvalidPatch) {
		t.Errorf("failing op error = %v", err)
	}
}

func TestDecodeNestingLimit(t *testing.T) {
	nested := func(open, close string, n int) []byte {
		return []byte(strings.Repeat(open, n) + strings.Repeat(close, n))
	}
	tests := []struct {
		name    string
		input   []byte
		format  string
		wantErr bool
	}{
		{"json at limit", nested("[", "]", MaxDepth), FormatJSON, false},
		{"json over limit", nested("[", "]", MaxDepth+1), FormatJSON, true},
		{"json far over limit", nested(`{"a":`, "}", 1<<20), FormatJSON, true},
		{"auto far over limit", nested("[", "]", 1<<22), FormatAuto, true},
		{"yaml flow over limit", nested("[", "]", MaxDepth+1), FormatYAML, true},
		{"yaml block over limit", []byte(strings.Repeat("- ", MaxDepth+1) + "x\n"), FormatYAML, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input, tt.format)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Decode: %v", err)
				}
				return
			}
			if !errors.Is(err, errors.ErrCodeParse) || !strings.Contains(err.Error(), "maximum nesting depth") {
				t.Errorf("err = %v, want nesting depth PARSE_ERROR", err)
			}
		})
	}
}

func TestYAMLDepth(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"a: 1\n", 0},
		{"a:\n  b: [1, [2]]\n", 4},
		{"- - x\n", 4},
		{"a: '[[[['\nb: \"{{\" # [[[\n", 0},
		{"a: it's [x]\n", 1},
	}
	for _, tt := range tests {
		if got := yamlDepth([]byte(tt.input)); got != tt.want {
			t.Errorf("yamlDepth(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
