// pkg/api/stcall_v1.go
package api

// ReportV1 is the document written by the json and yaml report formats.
// Diagnostics cover strains left out of Calls (several species) as well
// as warnings about the strains listed.
type ReportV1 struct {
	Calls       []STCallV1     `json:"calls" yaml:"calls"`
	Diagnostics []DiagnosticV1 `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// STCallV1 is the stable JSON/JSONL/YAML schema for one report row.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type STCallV1 struct {
	Strain  string        `json:"strain" yaml:"strain"`
	Species string        `json:"species" yaml:"species"`
	ST      string        `json:"st" yaml:"st"`         // "NA" when not assigned
	Status  string        `json:"status" yaml:"status"` // "assigned" | "ambiguous" | "not_assigned"
	Alleles []LocusTypeV1 `json:"alleles" yaml:"alleles"`

	AmbiguousLoci []string `json:"ambiguous_loci,omitempty" yaml:"ambiguous_loci,omitempty"`
}

// LocusTypeV1 is the observed allele type at one locus. Type is "4/7" when
// several types were seen.
type LocusTypeV1 struct {
	Locus string `json:"locus" yaml:"locus"`
	Type  string `json:"type" yaml:"type"`
}

// HitV1 is one query's outcome, one JSON line per query in a .jsonl hit
// table.
type HitV1 struct {
	QueryID   string  `json:"query_id" yaml:"query_id"`
	Status    string  `json:"status" yaml:"status"` // "accepted" | "rejected" | "no_hit"
	SubjectID string  `json:"subject_id,omitempty" yaml:"subject_id,omitempty"`
	Length    int     `json:"length" yaml:"length"`
	Identity  float64 `json:"identity" yaml:"identity"`
	EValue    float64 `json:"evalue,omitempty" yaml:"evalue,omitempty"`
	BitScore  float64 `json:"bit_score,omitempty" yaml:"bit_score,omitempty"`
}

// DiagnosticV1 is a non-fatal strain-scoped condition. Kind is one of
// "multi_species", "multi_st", "ambiguous_locus", "not_assigned".
type DiagnosticV1 struct {
	Kind    string `json:"kind" yaml:"kind"`
	Strain  string `json:"strain" yaml:"strain"`
	Message string `json:"message" yaml:"message"`
}
