package envfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Format identifies a supported configuration file format.
type Format string

const (
	FormatDotEnv Format = "dotenv"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
)

// DetectFormat returns the format implied by the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".env":
		return FormatDotEnv, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("cannot detect format of %q: unsupported extension", path)
	}
}

// Load parses the file at path into a flat key-value map.
// The format is auto-detected from the file extension.
func Load(path string) (map[string]string, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return LoadFormat(path, format)
}

// LoadFormat parses the file at path using an explicitly declared format.
// It never touches the process environment; exporting is the caller's job.
func LoadFormat(path string, format Format) (map[string]string, error) {
	switch format {
	case FormatDotEnv:
		return LoadDotEnv(path)
	case FormatJSON:
		return loadJSON(path)
	case FormatYAML:
		return loadYAML(path)
	case FormatTOML:
		return loadTOML(path)
	default:
		return nil, &ParseError{Path: path, Err: fmt.Errorf("unsupported format %q", format)}
	}
}

func loadJSON(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("invalid JSON")}
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &ValidationError{Path: path}
	}

	result := make(map[string]string)
	var verr *ValidationError
	root.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.String:
			result[key.Str] = value.Str
		case gjson.Number, gjson.True, gjson.False:
			result[key.Str] = value.Raw
		case gjson.Null:
			result[key.Str] = ""
		default:
			// Nested object or array
			verr = &ValidationError{Path: path, Key: key.Str}
			return false
		}
		return true
	})
	if verr != nil {
		return nil, verr
	}
	return result, nil
}

func loadYAML(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if len(doc.Content) == 0 {
		return map[string]string{}, nil
	}

	// Values come from the scalar nodes' source text, so numbers keep
	// their written form (1.0 stays "1.0", not "1").
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ValidationError{Path: path}
	}

	result := make(map[string]string, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		if valueNode.Kind == yaml.AliasNode && valueNode.Alias != nil {
			valueNode = valueNode.Alias
		}
		if valueNode.Kind != yaml.ScalarNode {
			return nil, &ValidationError{Path: path, Key: keyNode.Value}
		}
		value := valueNode.Value
		if valueNode.Tag == "!!null" {
			value = ""
		}
		result[keyNode.Value] = value
	}
	return result, nil
}

func loadTOML(path string) (map[string]string, error) {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return flatten(path, raw)
}

// flatten coerces scalar values to strings and rejects nested structures.
func flatten(path string, raw map[string]any) (map[string]string, error) {
	result := make(map[string]string, len(raw))
	for key, value := range raw {
		str, ok := stringify(value)
		if !ok {
			return nil, &ValidationError{Path: path, Key: key}
		}
		result[key] = str
	}
	return result, nil
}

func stringify(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		// TOML floats always carry a fractional or exponent part;
		// format without scientific notation and keep the point.
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s, true
	case time.Time:
		return v.Format(time.RFC3339), true
	default:
		return "", false
	}
}
