// Package output renders typing results and hit tables.
package output

import "slices"

// Report formats.
const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatJSONL  = "jsonl"
	FormatYAML   = "yaml"
	FormatPretty = "pretty"
)

// Formats lists the report formats in help order.
func Formats() []string {
	return []string{FormatCSV, FormatJSON, FormatJSONL, FormatYAML, FormatPretty}
}

func ValidFormat(f string) bool { return slices.Contains(Formats(), f) }

// ReportFixedColumns lead every CSV header; locus columns follow.
var ReportFixedColumns = []string{"Strain", "Species", "ST"}

// ReportHeader is the CSV header for a locus list.
func ReportHeader(loci []string) []string {
	h := make([]string, 0, len(ReportFixedColumns)+len(loci))
	h = append(h, ReportFixedColumns...)
	return append(h, loci...)
}
