// Package value holds the raw nested data that jsonviz draws.
//
// Decoded documents use [Object] and [Array] so that object key order
// survives decoding; plain map[string]any and []any values built in Go are
// accepted as well (map keys are visited in sorted order). Every other value is
// a primitive: nil, bool, string, json.Number or a Go number.
package value

import (
	"fmt"
	"reflect"
	"slices"
)

// Member is a single key/value pair of an [Object].
type Member struct {
	Key   string
	Value any
}

// Object is an ordered object value. Members keep their source order.
type Object struct {
	Members []Member
}

// NewObject returns an object holding members in the given order.
func NewObject(members ...Member) *Object {
	return &Object{Members: members}
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	for _, m := range o.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set replaces the value under key, or appends a new member if key is absent.
func (o *Object) Set(key string, v any) {
	for i := range o.Members {
		if o.Members[i].Key == key {
			o.Members[i].Value = v
			return
		}
	}
	o.Members = append(o.Members, Member{Key: key, Value: v})
}

// Len returns the number of members.
func (o *Object) Len() int { return len(o.Members) }

// Array is an ordered list value.
type Array struct {
	Items []any
}

// NewArray returns an array holding items.
func NewArray(items ...any) *Array {
	return &Array{Items: items}
}

// Len returns the number of items.
func (a *Array) Len() int { return len(a.Items) }

// Append adds v to the end of the array.
func (a *Array) Append(v any) { a.Items = append(a.Items, v) }

// IsObject reports whether v is an object-like container.
func IsObject(v any) bool {
	switch v.(type) {
	case *Object, map[string]any:
		return true
	}
	return false
}

// IsArray reports whether v is an array-like container.
func IsArray(v any) bool {
	switch v.(type) {
	case *Array, []any:
		return true
	}
	return false
}

// IsContainer reports whether v is an object or an array.
func IsContainer(v any) bool {
	return IsObject(v) || IsArray(v)
}

// Members returns the ordered members of an object-like value.
// The second result is false when v is not an object.
func Members(v any) ([]Member, bool) {
	switch o := v.(type) {
	case *Object:
		if o == nil {
			return nil, true
		}
		return o.Members, true
	case map[string]any:
		keys := make([]string, 0, len(o))
		for k := range o {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		members := make([]Member, len(keys))
		for i, k := range keys {
			members[i] = Member{Key: k, Value: o[k]}
		}
		return members, true
	}
	return nil, false
}

// Items returns the items of an array-like value.
// The second result is false when v is not an array.
func Items(v any) ([]any, bool) {
	switch a := v.(type) {
	case *Array:
		if a == nil {
			return nil, true
		}
		return a.Items, true
	case []any:
		return a, true
	}
	return nil, false
}

// ID identifies a container instance. Two IDs are equal only when they
// refer to the same underlying storage.
type ID struct {
	kind reflect.Kind
	ptr  uintptr
	n    int
}

// Identity returns the identity of a container value. Primitives and empty
// slices have no identity; the second result is false for them.
func Identity(v any) (ID, bool) {
	switch c := v.(type) {
	case *Object:
		if c == nil {
			return ID{}, false
		}
		return ID{kind: reflect.Pointer, ptr: reflect.ValueOf(c).Pointer()}, true
	case *Array:
		if c == nil {
			return ID{}, false
		}
		return ID{kind: reflect.Pointer, ptr: reflect.ValueOf(c).Pointer()}, true
	case map[string]any:
		if c == nil {
			return ID{}, false
		}
		return ID{kind: reflect.Map, ptr: reflect.ValueOf(c).Pointer()}, true
	case []any:
		if len(c) == 0 {
			return ID{}, false
		}
		return ID{kind: reflect.Slice, ptr: reflect.ValueOf(c).Pointer(), n: len(c)}, true
	}
	return ID{}, false
}

// KindName returns "object", "array" or the primitive type name of v.
func KindName(v any) string {
	switch {
	case IsObject(v):
		return "object"
	case IsArray(v):
		return "array"
	case v == nil:
		return "null"
	}
	switch v.(type) {
	case bool:
		return "boolean"
	case string:
		return "string"
	}
	if isNumber(v) {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
