// Package catalog loads the ST profile definitions.
//
// File format, tab separated:
//
//	ST	adk	fumC	gyrB	clonal_complex      (optional header)
//	ecoli|ST_1	ecoli|adk_4	ecoli|fumC_2	ecoli|gyrB_1	CC10
//
// Column 1 is species|ST; allele columns are species|locus_type and must
// name the same species. A header row has no '|' in any column and either
// comes before the first data row or starts with "ST"; it may flag a
// trailing non-allele column such as clonal_complex, and from that column
// on, data rows are not read as alleles. Any other row without species|ST
// in column 1 is a format error.
package catalog

import (
	"bufio"
	"io"
	"sort"
	"strings"

	"stcall/internal/allele"
	"stcall/internal/errors"
	"stcall/internal/inputs"
)

// Profile is one ST definition, alleles in catalog-column order.
type Profile struct {
	Species string
	ID      string
	Alleles []allele.Allele
	Line    int
}

// Options tune header recognition.
type Options struct {
	// NonAlleleColumns are header names (case-insensitive) that end the
	// allele columns.
	NonAlleleColumns []string
}

// DefaultNonAlleleColumns are the annotation columns seen in public MLST
// profile tables.
func DefaultNonAlleleColumns() []string {
	return []string{"clonal_complex", "cc", "mlst_clade", "lineage", "species", "comments"}
}

func DefaultOptions() Options {
	return Options{NonAlleleColumns: DefaultNonAlleleColumns()}
}

// Catalog is species -> profiles in file order. Read-only once built.
type Catalog struct {
	bySpecies map[string][]Profile
	loci      map[string]allele.LocusSet
	species   []string
	n         int
}

// Load reads a catalog from path ("-" for stdin, gzip allowed).
func Load(path string, opt Options) (*Catalog, error) {
	rc, err := inputs.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Parse(rc, inputs.Name(path), opt)
}

// Parse reads a catalog; source labels errors. Any malformed row is fatal.
func Parse(r io.Reader, source string, opt Options) (*Catalog, error) {
	stop := make(map[string]struct{}, len(opt.NonAlleleColumns))
	for _, c := range opt.NonAlleleColumns {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			stop[c] = struct{}{}
		}
	}

	c := &Catalog{bySpecies: make(map[string][]Profile)}
	seen := make(map[string]int) // species|ST -> line
	cutoff := -1                 // column index where alleles end; -1 = none

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 16<<20)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), " \t\r")
		if strings.TrimSpace(line) == "" || line[0] == '#' {
			continue
		}
		f := strings.Split(line, "\t")

		if !strings.Contains(f[0], "|") {
			if !isHeader(f, c.n > 0) {
				return nil, errors.NewFormatError(source, ln, "first column %q: want species|ST", strings.TrimSpace(f[0]))
			}
			cutoff = headerCutoff(f, stop)
			continue
		}
		if cutoff > 0 && len(f) > cutoff {
			f = f[:cutoff]
		}

		p, err := parseRow(f, source, ln)
		if err != nil {
			return nil, err
		}
		key := p.Species + "|" + p.ID
		if first, dup := seen[key]; dup {
			return nil, errors.NewFormatError(source, ln, "ST %s already defined on line %d", key, first)
		}
		seen[key] = ln

		if _, ok := c.bySpecies[p.Species]; !ok {
			c.species = append(c.species, p.Species)
		}
		c.bySpecies[p.Species] = append(c.bySpecies[p.Species], p)
		c.n++
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", source)
	}
	sort.Strings(c.species)
	c.loci = make(map[string]allele.LocusSet, len(c.species))
	for sp, ps := range c.bySpecies {
		var names []string
		for _, p := range ps {
			for _, a := range p.Alleles {
				names = append(names, a.Locus)
			}
		}
		c.loci[sp] = allele.NewLocusSet(names...)
	}
	return c, nil
}

// isHeader reports whether f is a header row. Once data rows were read,
// only rows starting with "ST" open a new header.
func isHeader(f []string, afterData bool) bool {
	for _, col := range f {
		if strings.Contains(col, "|") {
			return false
		}
	}
	return !afterData || strings.EqualFold(strings.TrimSpace(f[0]), "ST")
}

// headerCutoff returns the index of the first non-allele column, or -1.
func headerCutoff(f []string, stop map[string]struct{}) int {
	for i := 1; i < len(f); i++ {
		if _, ok := stop[strings.ToLower(strings.TrimSpace(f[i]))]; ok {
			return i
		}
	}
	return -1
}

func parseRow(f []string, source string, ln int) (Profile, error) {
	head := strings.TrimSpace(f[0])
	bar := strings.IndexByte(head, '|')
	species, id := head[:bar], head[bar+1:]
	if species == "" || id == "" {
		return Profile{}, errors.NewFormatError(source, ln, "first column %q: want species|ST", head)
	}
	if len(f) < 2 {
		return Profile{}, errors.NewFormatError(source, ln, "ST %s has no allele columns", head)
	}

	p := Profile{Species: species, ID: id, Alleles: make([]allele.Allele, 0, len(f)-1), Line: ln}
	loci := make(map[string]struct{}, len(f)-1)
	for _, col := range f[1:] {
		col = strings.TrimSpace(col)
		a, err := allele.ParseSubjectID(col)
		if err != nil {
			return Profile{}, errors.NewFormatError(source, ln, "%v", err)
		}
		if a.Species != species {
			return Profile{}, errors.NewFormatError(source, ln, "column %q: species differs from %q", col, species)
		}
		if _, dup := loci[a.Locus]; dup {
			return Profile{}, errors.NewFormatError(source, ln, "locus %q listed twice", a.Locus)
		}
		loci[a.Locus] = struct{}{}
		p.Alleles = append(p.Alleles, a)
	}
	return p, nil
}

// Len is the total number of profiles.
func (c *Catalog) Len() int { return c.n }

// Species lists catalog species, sorted.
func (c *Catalog) Species() []string { return append([]string(nil), c.species...) }

// Profiles returns the profiles of species in file order, nil when the
// species is unknown. The slice is shared; do not modify.
func (c *Catalog) Profiles(species string) []Profile { return c.bySpecies[species] }

// Loci is the union of loci declared for species; empty when the species
// is unknown.
func (c *Catalog) Loci(species string) allele.LocusSet { return c.loci[species] }
