package value

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/jsonviz/pkg/errors"
)

func keys(v any) []string {
	members, _ := Members(v)
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.Key
	}
	return out
}

func TestDecodeJSONKeepsOrder(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"zeta":1,"alpha":{"y":true,"b":null},"mid":[1,"two",{"k":3}]}`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}

	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, keys(v)); diff != "" {
		t.Errorf("top-level order (-want +got):\n%s", diff)
	}

	obj := v.(*Object)
	alpha, _ := obj.Get("alpha")
	if diff := cmp.Diff([]string{"y", "b"}, keys(alpha)); diff != "" {
		t.Errorf("nested order (-want +got):\n%s", diff)
	}

	mid, _ := obj.Get("mid")
	items, ok := Items(mid)
	if !ok || len(items) != 3 {
		t.Fatalf("mid items = %v", mid)
	}
	if items[0] != json.Number("1") {
		t.Errorf("numbers decode as json.Number, got %T", items[0])
	}
}

func TestDecodeJSONDuplicateKeys(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"a":1,"b":2,"a":3}`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, keys(v)); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	got, _ := v.(*Object).Get("a")
	if got != json.Number("3") {
		t.Errorf("a = %v, want last value 3", got)
	}
}

func TestDecodeJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"truncated", `{"a":`},
		{"trailing garbage", `{"a":1} x`},
		{"second document", `{} {}`},
		{"bad token", "{\n  \"a\": tru\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.input))
			if !errors.Is(err, errors.ErrCodeParse) {
				t.Fatalf("err = %v, want PARSE_ERROR", err)
			}
		})
	}
}

func TestDecodeJSONPrimitiveRoot(t *testing.T) {
	v, err := DecodeJSON([]byte(`"hello"`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if v != "hello" {
		t.Errorf("v = %v", v)
	}
}

func TestPosition(t *testing.T) {
	line, col := position([]byte("ab\ncd\nef"), 4)
	if line != 2 || col != 2 {
		t.Errorf("position = %d:%d, want 2:2", line, col)
	}
}

func TestMarshalJSONRoundTrip(t *testing.T) {
	in := `{"b":[1,2.5,"x",null,true],"a":{"nested":{}},"c":[]}`
	v, err := DecodeJSON([]byte(in))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	out, err := MarshalJSON(v)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(out) != in {
		t.Errorf("MarshalJSON = %s, want %s", out, in)
	}
}

func TestMarshalJSONRejectsSelfReference(t *testing.T) {
	obj := NewObject()
	obj.Set("self", obj)
	if _, err := MarshalJSON(obj); err == nil {
		t.Fatal("expected error for self-referencing value")
	}
}

func TestMarshalJSONSharedValue(t *testing.T) {
	shared := NewObject(Member{Key: "x", Value: 1})
	root := NewObject(Member{Key: "a", Value: shared}, Member{Key: "b", Value: shared})
	out, err := MarshalJSON(root)
	if err != nil {
		t.Fatalf("shared values are not cycles: %v", err)
	}
	if string(out) != `{"a":{"x":1},"b":{"x":1}}` {
		t.Errorf("MarshalJSON = %s", out)
	}
}

func TestEncodePrimitive(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{true, "true"},
		{"a<b>&\"c\"", `"a<b>&\"c\""`},
		{json.Number("1e3"), "1000"},
		{json.Number("1.0"), "1"},
		{json.Number("-0.50"), "-0.5"},
		{json.Number("1e21"), "1e+21"},
		{json.Number("1e400"), "null"},
		{json.Number("12345678901234567890"), "12345678901234567000"},
		{1.0, "1"},
		{0.25, "0.25"},
		{42, "42"},
		{int64(-7), "-7"},
		{uint64(7), "7"},
	}
	for _, tt := range tests {
		if got := EncodePrimitive(tt.in); got != tt.want {
			t.Errorf("EncodePrimitive(%#v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMarshalJSONKeepsNumberText(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"a":1.0,"b":1e2,"c":12345678901234567890}`))
	if err != nil {
		t.Fatal(err)
	}
	out, err := MarshalJSON(v)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"a":1.0,"b":1e2,"c":12345678901234567890}` {
		t.Errorf("MarshalJSON = %s", out)
	}
}

func TestMapAndSliceContainers(t *testing.T) {
	m := map[string]any{"b": 1, "a": 2}
	if diff := cmp.Diff([]string{"a", "b"}, keys(m)); diff != "" {
		t.Errorf("map keys are sorted (-want +got):\n%s", diff)
	}
	if !IsArray([]any{1}) || !IsObject(m) || IsContainer("x") {
		t.Error("container detection")
	}
}

func TestIdentity(t *testing.T) {
	a := NewObject()
	b := NewObject()
	ida, _ := Identity(a)
	idb, _ := Identity(b)
	ida2, _ := Identity(a)
	if ida == idb {
		t.Error("distinct objects share identity")
	}
	if ida != ida2 {
		t.Error("identity is not stable")
	}

	s := []any{1, 2}
	id1, _ := Identity(s)
	id2, _ := Identity(s[:1])
	if id1 == id2 {
		t.Error("sub-slices of different length must differ")
	}

	if _, ok := Identity([]any{}); ok {
		t.Error("empty slices have no identity")
	}
	if _, ok := Identity(3); ok {
		t.Error("primitives have no identity")
	}
}

func TestKindName(t *testing.T) {
	tests := map[string]any{
		"object":  NewObject(),
		"array":   []any{},
		"null":    nil,
		"boolean": false,
		"string":  "",
		"number":  json.Number("1"),
	}
	for want, v := range tests {
		if got := KindName(v); got != want {
			t.Errorf("KindName(%#v) = %s, want %s", v, got, want)
		}
	}
}
