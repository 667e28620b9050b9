// Package matcher assigns sequence types to strains.
//
// A strain typed at loci L is compared with every catalog profile of its
// species masked down to L. Profile indexes are built lazily per
// (species, locus set) and cached, so strains sharing a locus set share one
// index. Concurrent misses on the same key build it once.
package matcher

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"stcall/internal/allele"
	"stcall/internal/catalog"
	"stcall/internal/errors"
	"stcall/internal/runutil"
	"stcall/internal/strainidx"
)

// Policy decides what happens to a strain with several allele types at a
// locus.
type Policy string

const (
	// PolicyEnumerate tries every combination of observed types.
	PolicyEnumerate Policy = "enumerate"
	// PolicyStrict fails the run with an AmbiguousLocusError.
	PolicyStrict Policy = "strict"
)

const (
	DefaultMaxCombinations = 256
	DefaultCacheSize       = 1024
)

// ParsePolicy accepts "enumerate" or "strict" (case-insensitive).
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyEnumerate, PolicyStrict:
		return p, nil
	case "":
		return PolicyEnumerate, nil
	}
	return "", errors.Newf("unknown locus policy %q (want enumerate|strict)", s)
}

type Options struct {
	Policy          Policy
	MaxCombinations int // enumerate only; above this the strain is not assigned
	CacheSize       int // profile indexes kept; <=0 uses DefaultCacheSize
}

func DefaultOptions() Options {
	return Options{Policy: PolicyEnumerate, MaxCombinations: DefaultMaxCombinations, CacheSize: DefaultCacheSize}
}

// Matcher is safe for concurrent use.
type Matcher struct {
	cat *catalog.Catalog
	opt Options

	mu    sync.Mutex
	cache *runutil.LRU[string, *ProfileIndex]
	group singleflight.Group

	hits   atomic.Int64
	builds atomic.Int64
}

func New(cat *catalog.Catalog, opt Options) *Matcher {
	if opt.Policy == "" {
		opt.Policy = PolicyEnumerate
	}
	if opt.MaxCombinations <= 0 {
		opt.MaxCombinations = DefaultMaxCombinations
	}
	if opt.CacheSize <= 0 {
		opt.CacheSize = DefaultCacheSize
	}
	return &Matcher{
		cat:   cat,
		opt:   opt,
		cache: runutil.NewLRU[string, *ProfileIndex](opt.CacheSize),
	}
}

// CacheStats reports index cache hits and index builds so far.
func (m *Matcher) CacheStats() (hits, builds int64) {
	return m.hits.Load(), m.builds.Load()
}

// Index returns the profile index for species masked to loci.
func (m *Matcher) Index(species string, loci allele.LocusSet) *ProfileIndex {
	key := species + "\x1e" + loci.ID()

	m.mu.Lock()
	pi, ok := m.cache.Get(key)
	m.mu.Unlock()
	if ok {
		m.hits.Add(1)
		return pi
	}

	v, _, _ := m.group.Do(key, func() (any, error) {
		// a flight that finished between the Get above and Do
		m.mu.Lock()
		pi, ok := m.cache.Get(key)
		m.mu.Unlock()
		if ok {
			return pi, nil
		}
		pi = BuildProfileIndex(m.cat.Profiles(species), species, loci)
		m.builds.Add(1)
		m.mu.Lock()
		m.cache.Put(key, pi)
		m.mu.Unlock()
		return pi, nil
	})
	return v.(*ProfileIndex)
}

// Resolve types one strain. The only error is an AmbiguousLocusError under
// PolicyStrict.
func (m *Matcher) Resolve(sh strainidx.StrainHits) (Result, error) {
	loci := sh.Loci()
	names := loci.Names()
	res := Result{
		Strain:        sh.Strain,
		Species:       sh.Species,
		Loci:          names,
		AmbiguousLoci: sh.AmbiguousLoci(),
	}

	if len(res.AmbiguousLoci) > 0 && m.opt.Policy == PolicyStrict {
		return res, errors.WithStack(&errors.AmbiguousLocusError{Strain: sh.Strain, Loci: res.AmbiguousLoci})
	}

	combos := 1
	for _, l := range names {
		combos *= len(sh.Alleles[l])
		if combos > m.opt.MaxCombinations {
			break
		}
	}
	if len(res.AmbiguousLoci) > 0 {
		msg := fmt.Sprintf("several allele types at %s; %d combinations tried", strings.Join(res.AmbiguousLoci, ", "), combos)
		if combos > m.opt.MaxCombinations {
			msg = fmt.Sprintf("several allele types at %s; more than %d combinations, not typed", strings.Join(res.AmbiguousLoci, ", "), m.opt.MaxCombinations)
		}
		res.Diagnostics = append(res.Diagnostics, Diagnostic{Kind: KindAmbiguousLocus, Strain: sh.Strain, Message: msg})
	}

	if combos <= m.opt.MaxCombinations {
		idx := m.Index(sh.Species, loci)
		seen := make(map[string]struct{})
		enumerate(sh, names, func(alleles []allele.Allele, types []string) {
			for _, st := range idx.Lookup(allele.NewKey(alleles)) {
				if _, dup := seen[st]; dup {
					continue
				}
				seen[st] = struct{}{}
				res.Rows = append(res.Rows, Row{ST: st, Alleles: append([]string(nil), types...)})
			}
		})
	}

	switch len(res.Rows) {
	case 0:
		res.Status = StatusNotAssigned
		res.Rows = []Row{{ST: NotAssigned, Alleles: observed(sh, names)}}
		msg := fmt.Sprintf("no %s profile matches at %d loci", sh.Species, len(names))
		if m.cat.Profiles(sh.Species) == nil {
			msg = fmt.Sprintf("species %s not in catalog", sh.Species)
		} else if unknown := missingLoci(m.cat.Loci(sh.Species), names); len(unknown) > 0 {
			msg += fmt.Sprintf("; %s not in the %s scheme", strings.Join(unknown, ", "), sh.Species)
		}
		res.Diagnostics = append(res.Diagnostics, Diagnostic{Kind: KindNotAssigned, Strain: sh.Strain, Message: msg})
	case 1:
		res.Status = StatusAssigned
	default:
		res.Status = StatusAmbiguous
		sts := res.STs()
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Kind:    KindMultiST,
			Strain:  sh.Strain,
			Message: fmt.Sprintf("%d STs match: %s", len(sts), strings.Join(sts, ", ")),
		})
	}
	return res, nil
}

// ResolveAll resolves strains on up to threads goroutines. Results keep the
// input order. The first error cancels the remaining work.
func (m *Matcher) ResolveAll(ctx context.Context, strains []strainidx.StrainHits, threads int) ([]Result, error) {
	out := make([]Result, len(strains))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runutil.EffectiveThreads(threads))
	for i, sh := range strains {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := m.Resolve(sh)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// enumerate calls fn once per combination of observed types, in sorted
// type order per locus. The slices passed to fn are reused.
func enumerate(sh strainidx.StrainHits, names []string, fn func([]allele.Allele, []string)) {
	alleles := make([]allele.Allele, len(names))
	types := make([]string, len(names))
	var rec func(i int)
	rec = func(i int) {
		if i == len(names) {
			fn(alleles, types)
			return
		}
		for _, t := range sh.Alleles[names[i]] {
			alleles[i] = allele.Allele{Species: sh.Species, Locus: names[i], Type: t}
			types[i] = strconv.Itoa(t)
			rec(i + 1)
		}
	}
	rec(0)
}

// missingLoci lists names absent from scheme, in order.
func missingLoci(scheme allele.LocusSet, names []string) []string {
	var out []string
	for _, l := range names {
		if !scheme.Has(l) {
			out = append(out, l)
		}
	}
	return out
}

// observed renders each locus' types, "/"-joined when there are several.
func observed(sh strainidx.StrainHits, names []string) []string {
	out := make([]string, len(names))
	for i, l := range names {
		ts := sh.Alleles[l]
		parts := make([]string, len(ts))
		for j, t := range ts {
			parts[j] = strconv.Itoa(t)
		}
		out[i] = strings.Join(parts, "/")
	}
	return out
}
