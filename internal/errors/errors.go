// Package errors re-exports github.com/cockroachdb/errors and defines the
// error taxonomy of a typing run.
//
//	FormatError          malformed search output or catalog (fatal)
//	AmbiguousLocusError  several allele types at one locus under the strict policy (fatal)
//
// Non-fatal conditions (multi-species strains, multi-ST calls, lookup
// misses) are not errors; they travel as diagnostics next to the results.
package errors

import (
	"fmt"
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// Sentinels. Match with errors.Is.
var (
	// ErrFormat marks malformed input: a subject id, a tabular row or a
	// catalog line that does not follow the expected shape.
	ErrFormat = New("format error")

	// ErrAmbiguousLocus marks a strain with several allele types recorded
	// at one locus when the strict locus policy is in effect.
	ErrAmbiguousLocus = New("ambiguous locus")
)

// FormatError locates a format violation in its source.
type FormatError struct {
	Source string // file name or "-"; may be empty
	Line   int    // 1-based; 0 when unknown
	Msg    string
}

func (e *FormatError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
		b.WriteString(": ")
	} else if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(e.Msg)
	return b.String()
}

// Is lets errors.Is(err, ErrFormat) match any *FormatError.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// NewFormatError returns a FormatError carrying a stack trace.
func NewFormatError(source string, line int, format string, args ...any) error {
	return WithStack(&FormatError{Source: source, Line: line, Msg: fmt.Sprintf(format, args...)})
}

// IsFormatError reports whether err is or wraps a FormatError.
func IsFormatError(err error) bool {
	return err != nil && Is(err, ErrFormat)
}

// AmbiguousLocusError names the strain and loci that carry several allele types.
type AmbiguousLocusError struct {
	Strain string
	Loci   []string
}

func (e *AmbiguousLocusError) Error() string {
	return fmt.Sprintf("strain %s: several allele types at %s", e.Strain, strings.Join(e.Loci, ","))
}

func (e *AmbiguousLocusError) Is(target error) bool { return target == ErrAmbiguousLocus }
