package matcher

import (
	"stcall/internal/allele"
	"stcall/internal/catalog"
)

// ProfileIndex maps masked keys to ST ids for one species and one locus
// set. STs sharing a key are kept in catalog order.
type ProfileIndex struct {
	Species string
	Loci    allele.LocusSet
	byKey   map[string][]string
}

// BuildProfileIndex masks every profile down to loci and groups the ones
// whose masked keys collide. Profiles lacking any of the loci can never
// equal a strain typed at all of them and are left out.
func BuildProfileIndex(profiles []catalog.Profile, species string, loci allele.LocusSet) *ProfileIndex {
	pi := &ProfileIndex{Species: species, Loci: loci, byKey: make(map[string][]string)}
	for _, p := range profiles {
		k := allele.Mask(p.Alleles, loci)
		if len(k) != loci.Len() {
			continue
		}
		id := k.Key()
		pi.byKey[id] = append(pi.byKey[id], p.ID)
	}
	return pi
}

// Lookup returns the STs whose masked profile equals k, nil if none.
func (pi *ProfileIndex) Lookup(k allele.MaskedKey) []string {
	if pi == nil {
		return nil
	}
	return pi.byKey[k.Key()]
}

// Len is the number of distinct masked keys.
func (pi *ProfileIndex) Len() int { return len(pi.byKey) }
