// Package allele models the (species, locus, allele type) tuple that both the
// search hits and the ST catalog are built from.
//
// The pipe/underscore spelling "species|locus_type" only exists at the I/O
// boundary; everything past the parsers compares structured values.
package allele

import (
	"strconv"
	"strings"

	"stcall/internal/errors"
)

// Allele is one allele call at one locus.
type Allele struct {
	Species string
	Locus   string
	Type    int
}

// ParseSubjectID splits "species|locus_type". The species ends at the first
// '|', the allele type is the digits after the last '_', so loci such as
// "gyr_B2" or "16S_rRNA" survive intact.
func ParseSubjectID(s string) (Allele, error) {
	bar := strings.IndexByte(s, '|')
	if bar <= 0 {
		return Allele{}, errors.Newf("subject id %q: want species|locus_type", s)
	}
	species, rest := s[:bar], s[bar+1:]
	if strings.IndexByte(rest, '|') >= 0 {
		return Allele{}, errors.Newf("subject id %q: more than one '|'", s)
	}
	us := strings.LastIndexByte(rest, '_')
	if us <= 0 || us == len(rest)-1 {
		return Allele{}, errors.Newf("subject id %q: want locus_type after '|'", s)
	}
	locus, digits := rest[:us], rest[us+1:]
	if !allDigits(digits) {
		return Allele{}, errors.Newf("subject id %q: allele type %q is not a number", s, digits)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return Allele{}, errors.Wrapf(err, "subject id %q", s)
	}
	return Allele{Species: species, Locus: locus, Type: n}, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Token renders "locus_type".
func (a Allele) Token() string { return a.Locus + "_" + strconv.Itoa(a.Type) }

// SubjectID renders "species|locus_type".
func (a Allele) SubjectID() string { return a.Species + "|" + a.Token() }

// Less orders alleles by locus, then type, then species. Ordering by locus
// name rather than by the "locus_type" token keeps a locus at the same
// column whatever its type ("gyr" before "gyrB" even when gyrB_1 < gyr_2 as
// tokens).
func Less(a, b Allele) bool {
	if a.Locus != b.Locus {
		return a.Locus < b.Locus
	}
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	return a.Species < b.Species
}
