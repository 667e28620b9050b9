package output

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pterm/pterm"

	"stcall/internal/matcher"
)

// WritePretty renders one table per run of strains sharing a locus list.
// Not-assigned rows are dimmed and ambiguous STs highlighted. Warnings
// follow the tables.
func WritePretty(w io.Writer, rep Report) error {
	var (
		loci  []string
		table pterm.TableData
	)
	flush := func() error {
		if table == nil {
			return nil
		}
		s, err := pterm.DefaultTable.WithHasHeader().WithData(table).Srender()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n%s\n\n", pterm.LightCyan(fmt.Sprintf("loci: %s", strings.Join(loci, ", "))), s)
		table = nil
		return err
	}

	for _, r := range rep.Results {
		if table == nil || !slices.Equal(loci, r.Loci) {
			if err := flush(); err != nil {
				return err
			}
			loci = r.Loci
			table = pterm.TableData{ReportHeader(r.Loci)}
		}
		for _, row := range r.Rows {
			rec := csvRecord(r, row)
			switch r.Status {
			case matcher.StatusNotAssigned:
				rec[2] = pterm.Gray(rec[2])
			case matcher.StatusAmbiguous:
				rec[2] = pterm.Yellow(rec[2])
			}
			table = append(table, rec)
		}
	}
	if err := flush(); err != nil {
		return err
	}
	for _, d := range rep.Diagnostics() {
		if !d.Kind.Warning() {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s %s: %s\n", pterm.Yellow("!"), d.Strain, d.Message); err != nil {
			return err
		}
	}
	return nil
}
