package value

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/matzehuels/jsonviz/pkg/errors"
)

// =============================================================================
// Decoding
// =============================================================================

// MaxDepth is the deepest container nesting the decoders accept, matching
// the limit encoding/json applies in json.Unmarshal.
const MaxDepth = 10000

var errTooDeep = fmt.Errorf("exceeds maximum nesting depth of %d", MaxDepth)

// DecodeJSON parses a JSON document, keeping object key order.
// Numbers are decoded as json.Number so that their text survives unchanged.
// Duplicate keys keep their first position and their last value.
// Malformed input yields an error with code [errors.ErrCodeParse].
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return nil, parseError(data, dec.InputOffset(), err)
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("unexpected %v after top-level value", tok)
		}
		return nil, parseError(data, dec.InputOffset(), err)
	}
	return v, nil
}

func decodeValue(dec *json.Decoder, depth int) (any, error) {
	tok, err := dec.Token()
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	if depth >= MaxDepth {
		return nil, errTooDeep
	}

	switch delim {
	case '{':
		obj := &Object{}
		index := make(map[string]int)
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key must be a string, got %v", kt)
			}
			v, err := decodeValue(dec, depth+1)
			if err != nil {
				return nil, err
			}
			if i, dup := index[key]; dup {
				obj.Members[i].Value = v
				continue
			}
			index[key] = len(obj.Members)
			obj.Members = append(obj.Members, Member{Key: key, Value: v})
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := &Array{}
		for dec.More() {
			v, err := decodeValue(dec, depth+1)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected %q", rune(delim))
}

// parseError wraps a decoder failure with the line and column of offset.
func parseError(data []byte, offset int64, err error) error {
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return errors.Wrap(errors.ErrCodeParse, io.ErrUnexpectedEOF, "invalid JSON")
	}
	var syn *json.SyntaxError
	if stderrors.As(err, &syn) {
		offset = syn.Offset
	}
	line, col := position(data, offset)
	return errors.Wrap(errors.ErrCodeParse, err, "invalid JSON at line %d, column %d", line, col)
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// =============================================================================
// Encoding
// =============================================================================

// MarshalJSON encodes v as compact JSON, keeping object member order.
// It fails when v contains itself.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v, make(map[ID]bool)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent is like [MarshalJSON] but indents the output.
func MarshalIndent(v any, indent string) ([]byte, error) {
	data, err := MarshalJSON(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v any, onPath map[ID]bool) error {
	if id, ok := Identity(v); ok {
		if onPath[id] {
			return errors.New(errors.ErrCodeInvalidInput, "value contains a reference to itself")
		}
		onPath[id] = true
		defer delete(onPath, id)
	}

	if members, ok := Members(v); ok {
		buf.WriteByte('{')
		for i, m := range members {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(quote(m.Key))
			buf.WriteByte(':')
			if err := encode(buf, m.Value, onPath); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	}

	if items, ok := Items(v); ok {
		buf.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, item, onPath); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}

	if n, ok := v.(json.Number); ok {
		buf.WriteString(n.String())
		return nil
	}
	buf.WriteString(EncodePrimitive(v))
	return nil
}

// EncodePrimitive renders a primitive the way a browser's JSON.stringify
// would: strings are quoted, nil is null, non-finite numbers are null.
// Decoded numbers are normalized through float64, so 1.0 renders as 1 and
// 1e2 as 100. [MarshalJSON] keeps their source text instead.
func EncodePrimitive(v any) string {
	switch p := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(p)
	case string:
		return quote(p)
	case json.Number:
		return formatNumber(p)
	case float64:
		return formatFloat(p, 64)
	case float32:
		return formatFloat(float64(p), 32)
	case int:
		return strconv.Itoa(p)
	case int64:
		return strconv.FormatInt(p, 10)
	case uint64:
		return strconv.FormatUint(p, 10)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return quote(fmt.Sprint(v))
	}
	return string(data)
}

func formatNumber(n json.Number) string {
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil && !math.IsInf(f, 0) {
		return n.String()
	}
	return formatFloat(f, 64)
}

func formatFloat(f float64, bits int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	data, _ := json.Marshal(f)
	if bits == 32 {
		data, _ = json.Marshal(float32(f))
	}
	return string(data)
}

// quote encodes s as a JSON string without HTML escaping.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

func isNumber(v any) bool {
	switch v.(type) {
	case json.Number, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}
