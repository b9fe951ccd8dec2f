package value

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/matzehuels/jsonviz/pkg/errors"
)

// DecodeYAML parses a YAML document into the same ordered model as
// [DecodeJSON]. Mapping order is preserved; non-string mapping keys are
// converted with fmt.Sprint.
func DecodeYAML(data []byte) (any, error) {
	if yamlDepth(data) > MaxDepth {
		return nil, errors.Wrap(errors.ErrCodeParse, errTooDeep, "invalid YAML")
	}
	var raw any
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid YAML")
	}
	v, err := fromYAML(raw, 0)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid YAML")
	}
	return v, nil
}

// yamlDepth bounds the nesting of a YAML document from above without parsing
// it. Block nesting needs at least one leading column per level, whether
// indentation or compact "- " markers. Flow nesting is counted by brackets
// outside quoted scalars and comments.
func yamlDepth(data []byte) int {
	var (
		deepest, flow int
		lead          = true
		column        int
		quote         byte
		comment       bool
		prev          byte = ' '
	)
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c == '\n' {
			lead, column, comment, prev = true, 0, false, ' '
			if quote == '\'' {
				quote = 0
			}
			continue
		}
		if comment {
			continue
		}
		if lead {
			if c == ' ' || c == '\t' || c == '-' || c == '?' {
				column++
				deepest = max(deepest, column+flow)
				continue
			}
			lead = false
		}
		switch {
		case quote != 0:
			if c == '\\' && quote == '"' {
				i++
			} else if c == quote {
				quote = 0
			}
		case (c == '"' || c == '\'') && tokenStart(prev):
			quote = c
		case c == '#' && (prev == ' ' || prev == '\t'):
			comment = true
		case c == '[' || c == '{':
			flow++
			deepest = max(deepest, column+flow)
		case (c == ']' || c == '}') && flow > 0:
			flow--
		}
		prev = c
	}
	return deepest
}

// tokenStart reports whether a quoted scalar may begin after prev.
func tokenStart(prev byte) bool {
	switch prev {
	case ' ', '\t', '[', '{', ',', ':', '-', '?':
		return true
	}
	return false
}

func fromYAML(v any, depth int) (any, error) {
	if depth > MaxDepth {
		return nil, errTooDeep
	}
	switch t := v.(type) {
	case yaml.MapSlice:
		obj := &Object{Members: make([]Member, 0, len(t))}
		for _, item := range t {
			child, err := fromYAML(item.Value, depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(yamlKey(item.Key), child)
		}
		return obj, nil
	case map[string]any:
		members, _ := Members(t)
		obj := &Object{Members: make([]Member, 0, len(members))}
		for _, m := range members {
			child, err := fromYAML(m.Value, depth+1)
			if err != nil {
				return nil, err
			}
			obj.Members = append(obj.Members, Member{Key: m.Key, Value: child})
		}
		return obj, nil
	case []any:
		arr := &Array{Items: make([]any, len(t))}
		for i, item := range t {
			child, err := fromYAML(item, depth+1)
			if err != nil {
				return nil, err
			}
			arr.Items[i] = child
		}
		return arr, nil
	}
	return v, nil
}

func yamlKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	if k == nil {
		return "null"
	}
	return fmt.Sprint(k)
}
