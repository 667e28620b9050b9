package writers

import (
	"io"

	"stcall/internal/matcher"
	"stcall/internal/output"
)

// StartReportWriter spins up a writer goroutine for strain results. CSV
// and JSONL stream as results arrive; the other formats buffer until the
// channel is closed and also render conflicts, the diagnostics of strains
// that never reach the channel. The error channel yields exactly one
// value. After a write error the goroutine keeps draining so senders never
// block.
func StartReportWriter(out io.Writer, format string, bufSize int, conflicts []matcher.Diagnostic) (chan<- matcher.Result, <-chan error) {
	if format == output.FormatJSONL {
		return StartReportJSONLWriter(out, bufSize)
	}
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan matcher.Result, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var err error
		switch format {
		case output.FormatCSV:
			cw := output.NewCSVWriter(out)
			for r := range in {
				if err = cw.Write(r); err != nil {
					break
				}
			}
			if err == nil {
				err = cw.Flush()
			}
		default:
			rep := output.Report{Conflicts: conflicts}
			for r := range in {
				rep.Results = append(rep.Results, r)
			}
			err = WriteReport(format, out, rep)
		}
		for range in {
		}
		errCh <- quiet(err)
	}()

	return in, errCh
}
