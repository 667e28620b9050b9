package output

import (
	"encoding/csv"
	"io"
	"slices"

	"stcall/internal/matcher"
)

// CSVWriter streams report rows. A header precedes the first row and is
// repeated whenever a strain's locus list differs from the last header.
type CSVWriter struct {
	w    *csv.Writer
	loci []string
	head bool
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// Write appends every row of r.
func (cw *CSVWriter) Write(r matcher.Result) error {
	if !cw.head || !slices.Equal(cw.loci, r.Loci) {
		if err := cw.w.Write(ReportHeader(r.Loci)); err != nil {
			return err
		}
		cw.loci = append(cw.loci[:0], r.Loci...)
		cw.head = true
	}
	for _, row := range r.Rows {
		if err := cw.w.Write(csvRecord(r, row)); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes buffered rows and reports any write error.
func (cw *CSVWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}

// WriteCSV writes results as CSV.
func WriteCSV(w io.Writer, results []matcher.Result) error {
	cw := NewCSVWriter(w)
	for _, r := range results {
		if err := cw.Write(r); err != nil {
			return err
		}
	}
	return cw.Flush()
}
