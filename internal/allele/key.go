package allele

import (
	"sort"
	"strconv"
	"strings"
)

// LocusSet is an immutable, sorted set of locus names.
type LocusSet struct {
	names []string
	has   map[string]struct{}
}

// NewLocusSet builds a set; duplicates and order of names do not matter.
func NewLocusSet(names ...string) LocusSet {
	has := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := has[n]; ok {
			continue
		}
		has[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return LocusSet{names: out, has: has}
}

// Names returns the loci in sorted order. Do not modify.
func (s LocusSet) Names() []string { return s.names }

func (s LocusSet) Len() int { return len(s.names) }

func (s LocusSet) Has(locus string) bool {
	_, ok := s.has[locus]
	return ok
}

// ID is a stable identity for the set, usable as a cache key.
func (s LocusSet) ID() string { return strings.Join(s.names, "\x00") }

// MaskedKey is an allele combination restricted to a locus set, sorted by
// locus. Two keys are equal iff their Key() strings are equal.
type MaskedKey []Allele

// NewKey copies and sorts alleles into a key.
func NewKey(alleles []Allele) MaskedKey {
	k := make(MaskedKey, len(alleles))
	copy(k, alleles)
	sort.Slice(k, func(i, j int) bool { return Less(k[i], k[j]) })
	return k
}

// Mask keeps the alleles whose locus is in loci.
func Mask(alleles []Allele, loci LocusSet) MaskedKey {
	kept := make([]Allele, 0, loci.Len())
	for _, a := range alleles {
		if loci.Has(a.Locus) {
			kept = append(kept, a)
		}
	}
	return NewKey(kept)
}

// Key is the comparison form: one NUL-terminated record per allele with
// unit separators between fields, so no locus spelling can collide.
func (k MaskedKey) Key() string {
	var b strings.Builder
	for _, a := range k {
		b.WriteString(a.Species)
		b.WriteByte(0x1f)
		b.WriteString(a.Locus)
		b.WriteByte(0x1f)
		b.WriteString(strconv.Itoa(a.Type))
		b.WriteByte(0)
	}
	return b.String()
}

// String renders the concatenated "species|locus_type" form.
func (k MaskedKey) String() string {
	var b strings.Builder
	for _, a := range k {
		b.WriteString(a.SubjectID())
	}
	return b.String()
}

// Loci lists the key's loci in key order.
func (k MaskedKey) Loci() []string {
	out := make([]string, len(k))
	for i, a := range k {
		out[i] = a.Locus
	}
	return out
}
