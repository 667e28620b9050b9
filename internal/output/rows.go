// internal/output/rows.go
package output

import (
	"stcall/internal/blast"
	"stcall/internal/matcher"
	"stcall/pkg/api"
)

// ToAPICalls converts one strain result to its report rows (v1), one per
// candidate ST.
func ToAPICalls(r matcher.Result) []api.STCallV1 {
	out := make([]api.STCallV1, 0, len(r.Rows))
	for _, row := range r.Rows {
		v := api.STCallV1{
			Strain:        r.Strain,
			Species:       r.Species,
			ST:            row.ST,
			Status:        string(r.Status),
			Alleles:       make([]api.LocusTypeV1, len(r.Loci)),
			AmbiguousLoci: append([]string(nil), r.AmbiguousLoci...),
		}
		for i, l := range r.Loci {
			v.Alleles[i] = api.LocusTypeV1{Locus: l, Type: row.Alleles[i]}
		}
		out = append(out, v)
	}
	return out
}

func toAPICallList(results []matcher.Result) []api.STCallV1 {
	out := make([]api.STCallV1, 0, len(results))
	for _, r := range results {
		out = append(out, ToAPICalls(r)...)
	}
	return out
}

// ToAPIHit converts a parsed query outcome to the wire schema.
func ToAPIHit(q blast.QueryResult) api.HitV1 {
	v := api.HitV1{QueryID: q.QueryID, Status: q.Status.String()}
	if q.Hit != nil {
		v.SubjectID = q.Hit.SubjectID
		v.Length = q.Hit.Length
		v.Identity = q.Hit.Identity
		v.EValue = q.Hit.EValue
		v.BitScore = q.Hit.BitScore
	}
	return v
}

func ToAPIDiagnostic(d matcher.Diagnostic) api.DiagnosticV1 {
	return api.DiagnosticV1{Kind: string(d.Kind), Strain: d.Strain, Message: d.Message}
}

// csvRecord is the CSV data row for one report row, ordered as
// ReportHeader(r.Loci).
func csvRecord(r matcher.Result, row matcher.Row) []string {
	rec := make([]string, 0, len(ReportFixedColumns)+len(row.Alleles))
	rec = append(rec, r.Strain, r.Species, row.ST)
	return append(rec, row.Alleles...)
}
