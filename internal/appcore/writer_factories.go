package appcore

import (
	"io"

	"stcall/internal/matcher"
	"stcall/internal/writers"
)

// WriterFactory starts the report writer goroutine. conflicts are the
// diagnostics of strains that are not sent on the channel.
type WriterFactory interface {
	Start(out io.Writer, bufSize int, conflicts []matcher.Diagnostic) (chan<- matcher.Result, <-chan error)
}

// ---------------- Report writer ----------------

type ReportWriterFactory struct {
	Format string
}

func (w ReportWriterFactory) Start(out io.Writer, bufSize int, conflicts []matcher.Diagnostic) (chan<- matcher.Result, <-chan error) {
	return writers.StartReportWriter(out, w.Format, bufSize, conflicts)
}

// ---------------- Disabled report ----------------

// DiscardWriterFactory accepts results and writes nothing.
type DiscardWriterFactory struct{}

func (DiscardWriterFactory) Start(_ io.Writer, bufSize int, _ []matcher.Diagnostic) (chan<- matcher.Result, <-chan error) {
	in := make(chan matcher.Result, bufSize)
	done := make(chan error, 1)
	go func() {
		for range in {
		}
		done <- nil
	}()
	return in, done
}

// NewWriterFactory picks the report writer; a disabled report discards.
func NewWriterFactory(format string, enabled bool) WriterFactory {
	if !enabled {
		return DiscardWriterFactory{}
	}
	return ReportWriterFactory{Format: format}
}
