package materialize

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/jsonviz/pkg/expansion"
	"github.com/matzehuels/jsonviz/pkg/hierarchy"
	"github.com/matzehuels/jsonviz/pkg/value"
)

func build(t *testing.T, s string) *hierarchy.Node {
	t.Helper()
	raw, err := value.DecodeJSON([]byte(s))
	if err != nil {
		t.Fatal(err)
	}
	tree, err := hierarchy.Build(raw)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func labels(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Label()
	}
	return out
}

func TestDefaultExpansionShowsPlaceholders(t *testing.T) {
	tree := build(t, `{"a":1,"b":{"c":2}}`)
	v := Materialize(tree, expansion.New())

	if !v.Included || v.Path != "(root)" {
		t.Fatalf("root = %+v", v)
	}
	if diff := cmp.Diff([]string{"a: 1", "b: object"}, labels(v.Rows())); diff != "" {
		t.Errorf("root rows (-want +got):\n%s", diff)
	}

	b := v.Children[0]
	if b.Included || b.Path != "(root)/b" || b.Kind != hierarchy.KindObject {
		t.Errorf("b = %+v", b)
	}
	if len(b.Fields) != 0 || b.RowCount() != 1 {
		t.Errorf("placeholder must have only a title row, got %d rows", b.RowCount())
	}
}

func TestArrayRows(t *testing.T) {
	tree := build(t, `[1,{"x":2}]`)
	v := Materialize(tree, expansion.New())

	if diff := cmp.Diff([]string{"0: 1", "1: object"}, labels(v.Rows())); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
	links := v.Links()
	if len(links) != 1 || links[0].Path != "(root)/1" {
		t.Fatalf("links = %+v", links)
	}
	if got := v.RowIndex(links[0]); got != 1 {
		t.Errorf("RowIndex = %d, want 1", got)
	}
}

func TestRowIndexCountsFieldsFirst(t *testing.T) {
	tree := build(t, `{"k1":1,"c1":{},"k2":"x","c2":[],"k3":null}`)
	v := Materialize(tree, expansion.New())

	want := []string{`k1: 1`, `k2: "x"`, `k3: null`, `c1: object`, `c2: array`}
	if diff := cmp.Diff(want, labels(v.Rows())); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
	for i, c := range v.Children {
		if got := v.RowIndex(c); got != 3+i {
			t.Errorf("RowIndex(%s) = %d, want %d", c.Name, got, 3+i)
		}
		if rows := v.Rows(); rows[v.RowIndex(c)].Child != c {
			t.Errorf("row %d does not name %s", v.RowIndex(c), c.Name)
		}
	}
	if v.RowIndex(&Node{}) != -1 {
		t.Error("unknown child index")
	}
}

func TestExpandedSubtree(t *testing.T) {
	tree := build(t, `{"a":{"b":{"c":1}}}`)
	set := expansion.New()
	set.Toggle("(root)/a")

	v := Materialize(tree, set)
	a := v.Children[0]
	if !a.Included || len(a.Children) != 1 {
		t.Fatalf("a = %+v", a)
	}
	b := a.Children[0]
	if b.Included || b.Path != "(root)/a/b" {
		t.Errorf("b = %+v", b)
	}
}

func TestMaterializeIsPure(t *testing.T) {
	tree := build(t, `{"a":{"x":1},"l":[{"y":2},3]}`)
	set := expansion.New()
	set.ExpandAll(tree)

	first := Materialize(tree, set)
	second := Materialize(tree, set)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated calls differ (-first +second):\n%s", diff)
	}

	first.Children[0].Fields[0].Value = "mutated"
	first.Children[1].Items[1].Field.Value = "mutated"

	if tree.Children[0].Fields[0].Value == "mutated" || tree.Children[1].Items[1].Field.Value == "mutated" {
		t.Error("visible tree shares state with the canonical tree")
	}
	if second.Children[0].Fields[0].Value == "mutated" {
		t.Error("visible trees share state with each other")
	}
}

func TestPlaceholderTree(t *testing.T) {
	v := Materialize(hierarchy.Placeholder(), expansion.New())
	if !v.Included || v.Path != "root" || v.RowCount() != 1 {
		t.Errorf("placeholder = %+v", v)
	}
}

func TestCircularFlag(t *testing.T) {
	obj := value.NewObject()
	obj.Set("self", obj)
	tree, err := hierarchy.Build(obj)
	if err != nil {
		t.Fatal(err)
	}
	set := expansion.New()
	set.ExpandAll(tree)
	v := Materialize(tree, set)
	self := v.Children[0]
	if !self.Circular {
		t.Error("sentinel must be flagged")
	}
	if diff := cmp.Diff([]string{`[Circular]: "[Circular Reference]"`}, labels(self.Rows())); diff != "" {
		t.Errorf("sentinel rows (-want +got):\n%s", diff)
	}
}

func TestWalkOrder(t *testing.T) {
	tree := build(t, `{"a":{"b":{}},"c":[{}]}`)
	set := expansion.New()
	set.ExpandAll(tree)
	var paths []string
	Materialize(tree, set).Walk(func(n *Node) { paths = append(paths, n.Path) })
	want := []string{"(root)", "(root)/a", "(root)/a/b", "(root)/c", "(root)/c/0"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("walk (-want +got):\n%s", diff)
	}
}
