package output

import (
	"sort"

	"stcall/internal/matcher"
	"stcall/pkg/api"
)

// Report is what the buffered formats render: the typed strains in order
// plus the diagnostics of strains that were never typed.
type Report struct {
	Results   []matcher.Result
	Conflicts []matcher.Diagnostic
}

// Diagnostics merges Conflicts with each result's diagnostics, ordered by
// strain. Order within a strain is kept.
func (r Report) Diagnostics() []matcher.Diagnostic {
	out := append([]matcher.Diagnostic(nil), r.Conflicts...)
	for _, res := range r.Results {
		out = append(out, res.Diagnostics...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Strain < out[j].Strain })
	return out
}

func toAPIReport(r Report) api.ReportV1 {
	v := api.ReportV1{Calls: toAPICallList(r.Results)}
	for _, d := range r.Diagnostics() {
		v.Diagnostics = append(v.Diagnostics, ToAPIDiagnostic(d))
	}
	return v
}
