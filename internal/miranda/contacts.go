package miranda

import (
	"bytes"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

// Contact list export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var exportStyle = &pretty.Options{
	Indent:   " ",
	SortKeys: true,
}

// ExportContacts extracts the accounts and contacts sections of a raw
// document and renders them with sorted keys in the given format.
func ExportContacts(data []byte, format string) ([]byte, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidDocument
	}

	out := []byte(`{}`)
	var err error
	for _, key := range []string{"accounts", "contacts"} {
		raw := gjson.GetBytes(data, key).Raw
		if raw == "" {
			raw = "null"
		}
		out, err = sjson.SetRawBytes(out, key, []byte(raw))
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
	}
	out = pretty.PrettyOptions(out, exportStyle)

	switch format {
	case FormatJSON, "":
		return bytes.TrimRight(out, "\n"), nil
	case FormatYAML:
		return toYAML(out)
	default:
		return nil, fmt.Errorf("unknown contacts format %q", format)
	}
}

// toYAML re-emits a JSON document as block-style YAML, keeping key order and
// integer literals as they appear in the input.
func toYAML(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	clearStyle(&doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("encode contacts: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode contacts: %w", err)
	}
	return buf.Bytes(), nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
