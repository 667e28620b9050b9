// Package strainidx groups accepted hits by strain, species and locus.
//
// A Builder accumulates hits during parsing; Build freezes them into an
// Index that the matcher reads concurrently.
package strainidx

import (
	"sort"
	"strings"

	"stcall/internal/allele"
	"stcall/internal/blast"
)

// StrainLabel is the part of a query id before the first underscore
// ("S12_adk" -> "S12"); ids without one are their own label.
func StrainLabel(queryID string) string {
	if i := strings.IndexByte(queryID, '_'); i >= 0 {
		return queryID[:i]
	}
	return queryID
}

type typeSet map[int]struct{}

// Builder is the mutable side of the index. Not safe for concurrent use.
type Builder struct {
	m map[string]map[string]map[string]typeSet // strain -> species -> locus -> types
}

func NewBuilder() *Builder {
	return &Builder{m: make(map[string]map[string]map[string]typeSet)}
}

// Add files one accepted hit under its strain.
func (b *Builder) Add(h blast.HitRecord) {
	strain := StrainLabel(h.QueryID)
	bySpecies, ok := b.m[strain]
	if !ok {
		bySpecies = make(map[string]map[string]typeSet)
		b.m[strain] = bySpecies
	}
	byLocus, ok := bySpecies[h.Allele.Species]
	if !ok {
		byLocus = make(map[string]typeSet)
		bySpecies[h.Allele.Species] = byLocus
	}
	types, ok := byLocus[h.Allele.Locus]
	if !ok {
		types = make(typeSet)
		byLocus[h.Allele.Locus] = types
	}
	types[h.Allele.Type] = struct{}{}
}

func (b *Builder) AddAll(hits []blast.HitRecord) {
	for _, h := range hits {
		b.Add(h)
	}
}

// AddResults adds the accepted hits among results; rejected and no-hit
// queries are skipped.
func (b *Builder) AddResults(results []blast.QueryResult) {
	for _, r := range results {
		if r.Status == blast.Accepted && r.Hit != nil {
			b.Add(*r.Hit)
		}
	}
}

// Build returns an immutable snapshot. The builder stays usable.
func (b *Builder) Build() *Index {
	ix := &Index{
		strains: make([]string, 0, len(b.m)),
		data:    make(map[string]map[string]map[string][]int, len(b.m)),
	}
	for strain, bySpecies := range b.m {
		ix.strains = append(ix.strains, strain)
		sp := make(map[string]map[string][]int, len(bySpecies))
		for species, byLocus := range bySpecies {
			loci := make(map[string][]int, len(byLocus))
			for locus, set := range byLocus {
				types := make([]int, 0, len(set))
				for t := range set {
					types = append(types, t)
				}
				sort.Ints(types)
				loci[locus] = types
			}
			sp[species] = loci
		}
		ix.data[strain] = sp
	}
	sort.Strings(ix.strains)
	return ix
}

// Index is strain -> species -> locus -> sorted allele types.
type Index struct {
	strains []string
	data    map[string]map[string]map[string][]int
}

// Len is the number of strains.
func (ix *Index) Len() int { return len(ix.strains) }

// Strains lists every strain label, sorted.
func (ix *Index) Strains() []string { return append([]string(nil), ix.strains...) }

// Species lists the species a strain has hits in, sorted.
func (ix *Index) Species(strain string) []string {
	sp := ix.data[strain]
	out := make([]string, 0, len(sp))
	for s := range sp {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// StrainHits is everything one single-species strain brings to matching.
type StrainHits struct {
	Strain  string
	Species string
	Alleles map[string][]int // locus -> sorted allele types; do not modify
}

// Loci is the set of loci the strain was typed at.
func (s StrainHits) Loci() allele.LocusSet {
	names := make([]string, 0, len(s.Alleles))
	for l := range s.Alleles {
		names = append(names, l)
	}
	return allele.NewLocusSet(names...)
}

// AmbiguousLoci lists, sorted, loci with more than one allele type.
func (s StrainHits) AmbiguousLoci() []string {
	var out []string
	for l, types := range s.Alleles {
		if len(types) > 1 {
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}

// Conflict is a strain whose hits span several species.
type Conflict struct {
	Strain  string
	Species []string
}

// Lookup returns the hits of a single-species strain. ok is false for
// unknown strains and for conflicts.
func (ix *Index) Lookup(strain string) (StrainHits, bool) {
	sp := ix.data[strain]
	if len(sp) != 1 {
		return StrainHits{}, false
	}
	for species, loci := range sp {
		return StrainHits{Strain: strain, Species: species, Alleles: loci}, true
	}
	return StrainHits{}, false
}

// Resolved returns every single-species strain in strain order.
func (ix *Index) Resolved() []StrainHits {
	out := make([]StrainHits, 0, len(ix.strains))
	for _, s := range ix.strains {
		if sh, ok := ix.Lookup(s); ok {
			out = append(out, sh)
		}
	}
	return out
}

// Conflicts returns every multi-species strain in strain order.
func (ix *Index) Conflicts() []Conflict {
	var out []Conflict
	for _, s := range ix.strains {
		if len(ix.data[s]) > 1 {
			out = append(out, Conflict{Strain: s, Species: ix.Species(s)})
		}
	}
	return out
}
