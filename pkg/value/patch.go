package value

import (
	"slices"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/matzehuels/jsonviz/pkg/errors"
)

// ApplyPatch applies an RFC 6902 JSON Patch document to v and returns the
// patched value. v itself is not modified.
//
// Members that survive the patch keep their original relative order; members
// added by the patch follow them.
func ApplyPatch(v any, patch []byte) (any, error) {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPatch, err, "invalid JSON patch")
	}
	doc, err := MarshalJSON(v)
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPatch, err, "apply JSON patch")
	}
	next, err := DecodeJSON(out)
	if err != nil {
		return nil, err
	}
	alignOrder(v, next)
	return next, nil
}

// alignOrder reorders the members of next to follow the member order of prev
// wherever both hold an object at the same position.
func alignOrder(prev, next any) {
	if obj, ok := next.(*Object); ok {
		before, ok := Members(prev)
		if !ok {
			return
		}
		rank := make(map[string]int, len(before))
		for i, m := range before {
			rank[m.Key] = i
		}
		slices.SortStableFunc(obj.Members, func(a, b Member) int {
			ra, okA := rank[a.Key]
			rb, okB := rank[b.Key]
			switch {
			case okA && okB:
				return ra - rb
			case okA:
				return -1
			case okB:
				return 1
			}
			return 0
		})
		for i := range obj.Members {
			if old, ok := rank[obj.Members[i].Key]; ok {
				alignOrder(before[old].Value, obj.Members[i].Value)
			}
		}
		return
	}

	if arr, ok := next.(*Array); ok {
		before, ok := Items(prev)
		if !ok {
			return
		}
		for i := range min(len(before), len(arr.Items)) {
			alignOrder(before[i], arr.Items[i])
		}
	}
}
