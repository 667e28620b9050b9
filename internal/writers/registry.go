// internal/writers/registry.go
package writers

import (
	"io"

	"stcall/internal/errors"
	"stcall/internal/output"
)

// ReportWriters maps buffered formats to their renderer. CSV and JSONL
// stream and are not listed here.
var ReportWriters = map[string]func(w io.Writer, rep output.Report) error{}

// RegisterReport adds or replaces a buffered format (last wins).
func RegisterReport(format string, fn func(io.Writer, output.Report) error) {
	ReportWriters[format] = fn
}

func init() {
	RegisterReport(output.FormatJSON, output.WriteJSON)
	RegisterReport(output.FormatYAML, output.WriteYAML)
	RegisterReport(output.FormatPretty, output.WritePretty)
}

// WriteReport dispatches to a registered buffered format.
func WriteReport(format string, w io.Writer, rep output.Report) error {
	fn, ok := ReportWriters[format]
	if !ok {
		return errors.Newf("unknown report format %q (no writer registered)", format)
	}
	return fn(w, rep)
}
