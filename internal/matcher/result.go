package matcher

import (
	"fmt"
	"strings"

	"stcall/internal/strainidx"
)

// NotAssigned is the ST shown when no profile matches.
const NotAssigned = "NA"

// Status of a strain after lookup.
type Status string

const (
	StatusAssigned    Status = "assigned"     // exactly one ST
	StatusAmbiguous   Status = "ambiguous"    // several STs share the masked key
	StatusNotAssigned Status = "not_assigned" // no ST, or species not in catalog
)

// Row is one (strain, candidate ST) line of the report.
type Row struct {
	ST      string
	Alleles []string // one per Result.Loci entry; "4/7" when unresolved
}

// Result is the outcome for one strain.
type Result struct {
	Strain        string
	Species       string
	Loci          []string // sorted; the report column order
	Status        Status
	Rows          []Row
	AmbiguousLoci []string
	Diagnostics   []Diagnostic
}

// STs lists the candidate ST ids; empty when not assigned.
func (r Result) STs() []string {
	if r.Status == StatusNotAssigned {
		return nil
	}
	out := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.ST
	}
	return out
}

// DiagnosticKind classifies non-fatal, strain-scoped conditions.
type DiagnosticKind string

const (
	KindMultiSpecies   DiagnosticKind = "multi_species"   // strain excluded from typing
	KindMultiST        DiagnosticKind = "multi_st"        // several candidate STs
	KindAmbiguousLocus DiagnosticKind = "ambiguous_locus" // several allele types at a locus
	KindNotAssigned    DiagnosticKind = "not_assigned"    // lookup miss
)

// Warning reports whether the kind is logged as a warning. Lookup misses
// are ordinary outcomes.
func (k DiagnosticKind) Warning() bool { return k != KindNotAssigned }

type Diagnostic struct {
	Kind    DiagnosticKind
	Strain  string
	Message string
}

// ConflictDiagnostics turns multi-species strains into diagnostics.
func ConflictDiagnostics(conflicts []strainidx.Conflict) []Diagnostic {
	out := make([]Diagnostic, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, Diagnostic{
			Kind:    KindMultiSpecies,
			Strain:  c.Strain,
			Message: fmt.Sprintf("hits span %d species (%s); strain not typed", len(c.Species), strings.Join(c.Species, ", ")),
		})
	}
	return out
}
