// internal/output/json.go
package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// WriteJSON writes the report as one indented v1 JSON document.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toAPIReport(rep))
}

// WriteYAML writes the report as one v1 YAML document.
func WriteYAML(w io.Writer, rep Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toAPIReport(rep)); err != nil {
		return err
	}
	return enc.Close()
}
