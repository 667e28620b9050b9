package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"stcall/internal/blast"
)

// FormatHitRow renders one hit-table line (no trailing newline):
// query, subject or "No hits", length, percent identity. A rejected best
// hit keeps its length and identity.
func FormatHitRow(q blast.QueryResult) string {
	switch {
	case q.Status == blast.Accepted && q.Hit != nil:
		return fmt.Sprintf("%s\t%s\t%d\t%.2f", q.QueryID, q.Hit.SubjectID, q.Hit.Length, q.Hit.Identity)
	case q.Status == blast.Rejected && q.Hit != nil:
		return fmt.Sprintf("%s\t%s\t%d\t%.2f", q.QueryID, blast.NoHitsLabel, q.Hit.Length, q.Hit.Identity)
	default:
		return fmt.Sprintf("%s\t%s\t0\t0.00", q.QueryID, blast.NoHitsLabel)
	}
}

// WriteHitTable writes one line per query, in input order.
func WriteHitTable(w io.Writer, results []blast.QueryResult) error {
	bw := bufio.NewWriter(w)
	for _, q := range results {
		if _, err := fmt.Fprintln(bw, FormatHitRow(q)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteHitJSONL writes one v1 hit object per line, in input order.
func WriteHitJSONL(w io.Writer, results []blast.QueryResult) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, q := range results {
		if err := enc.Encode(ToAPIHit(q)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
