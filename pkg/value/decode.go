package value

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/matzehuels/jsonviz/pkg/errors"
)

// Input formats accepted by [Decode].
const (
	FormatAuto = "auto"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromName guesses the input format from a file name or URL path.
// Unknown extensions yield [FormatAuto].
func FormatFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".geojson", ".jsonc":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatAuto
}

// FormatFromContentType maps an HTTP content type to an input format.
func FormatFromContentType(ct string) string {
	ct = strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "json"):
		return FormatJSON
	case strings.Contains(ct, "yaml"):
		return FormatYAML
	}
	return FormatAuto
}

// Decode parses data in the given format. With [FormatAuto], input that looks
// like JSON is decoded as JSON and everything else as YAML.
func Decode(data []byte, format string) (any, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatYAML:
		return DecodeYAML(data)
	case FormatAuto, "":
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 {
			return nil, errors.New(errors.ErrCodeParse, "input is empty")
		}
		if trimmed[0] == '{' || trimmed[0] == '[' {
			return DecodeJSON(data)
		}
		return DecodeYAML(data)
	}
	return nil, errors.ValidateOneOf(errors.ErrCodeInvalidFormat, "input format", format, FormatAuto, FormatJSON, FormatYAML)
}
