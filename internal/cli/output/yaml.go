package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats data as YAML.
//
// Values go through JSON first so YAML keys follow the json tags the
// domain types already carry.
type YAMLFormatter struct{}

// Format implements Formatter.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return err
	}
	// Flow style is inherited from the JSON source; reset it so the
	// output is block-style YAML.
	resetStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

func resetStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" {
		n.Style &^= yaml.DoubleQuotedStyle
	}
	for _, c := range n.Content {
		resetStyle(c)
	}
}
