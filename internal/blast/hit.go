// Package blast parses tabular alignment-search output (BLAST outfmt 7, or
// plain outfmt 6) into one decision per query: accepted hit, rejected hit,
// or no hit.
package blast

import (
	"stcall/internal/allele"
)

// Default thresholds.
const (
	DefaultMinLength   = 200
	DefaultMinIdentity = 95.0
)

// NoHitsLabel stands in for the subject of queries without an accepted hit.
const NoHitsLabel = "No hits"

// HitRecord is the best hit of one query. Column names follow the outfmt 6
// field order.
type HitRecord struct {
	QueryID    string
	SubjectID  string
	Identity   float64 // percent, 0-100
	Length     int     // alignment length
	Mismatches int
	GapOpens   int
	QStart     int
	QEnd       int
	SStart     int
	SEnd       int
	EValue     float64
	BitScore   float64

	Allele allele.Allele // parsed from SubjectID
}

// Thresholds decide which best hits are kept.
type Thresholds struct {
	MinLength   int     // alignment length must be strictly greater
	MinIdentity float64 // percent identity must be greater or equal
}

// DefaultThresholds returns length > 200 and identity >= 95.
func DefaultThresholds() Thresholds {
	return Thresholds{MinLength: DefaultMinLength, MinIdentity: DefaultMinIdentity}
}

// Accept reports whether h passes both thresholds.
func (t Thresholds) Accept(h HitRecord) bool {
	return h.Length > t.MinLength && h.Identity >= t.MinIdentity
}

// Status is the per-query decision.
type Status int

const (
	NoHit    Status = iota // search reported zero hits
	Rejected               // best hit failed a threshold
	Accepted               // best hit kept
)

func (s Status) String() string {
	switch s {
	case NoHit:
		return "no_hit"
	case Rejected:
		return "rejected"
	case Accepted:
		return "accepted"
	}
	return "unknown"
}

// QueryResult is the decision for one query. Hit is nil for NoHit and set
// (to the failing best hit) for Rejected.
type QueryResult struct {
	QueryID string
	Status  Status
	Hit     *HitRecord
}

// AcceptedHits returns the accepted hits in input order.
func AcceptedHits(results []QueryResult) []HitRecord {
	out := make([]HitRecord, 0, len(results))
	for _, r := range results {
		if r.Status == Accepted && r.Hit != nil {
			out = append(out, *r.Hit)
		}
	}
	return out
}

// Counts tallies results by status.
func Counts(results []QueryResult) (accepted, rejected, noHit int) {
	for _, r := range results {
		switch r.Status {
		case Accepted:
			accepted++
		case Rejected:
			rejected++
		default:
			noHit++
		}
	}
	return
}

// FirstPerQuery keeps the first result of each query id and drops later
// ones, preserving order. dropped lists the query ids removed, once each.
func FirstPerQuery(results []QueryResult) (kept []QueryResult, dropped []string) {
	seen := make(map[string]bool, len(results))
	kept = make([]QueryResult, 0, len(results))
	for _, r := range results {
		if done, ok := seen[r.QueryID]; ok {
			if !done {
				dropped = append(dropped, r.QueryID)
				seen[r.QueryID] = true
			}
			continue
		}
		seen[r.QueryID] = false
		kept = append(kept, r)
	}
	return kept, dropped
}
