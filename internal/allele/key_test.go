package allele

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocusSet(t *testing.T) {
	s := NewLocusSet("fumC", "adk", "fumC")
	assert.Equal(t, []string{"adk", "fumC"}, s.Names())
	assert.True(t, s.Has("adk"))
	assert.False(t, s.Has("gyrB"))
	assert.Equal(t, NewLocusSet("adk", "fumC").ID(), s.ID())
}

func TestMask_Example(t *testing.T) {
	profile := []Allele{
		{"ecoli", "adk", 4},
		{"ecoli", "fumC", 2},
		{"ecoli", "gyrB", 7},
	}
	k := Mask(profile, NewLocusSet("fumC", "adk"))
	assert.Equal(t, "ecoli|adk_4ecoli|fumC_2", k.String())
	assert.Equal(t, []string{"adk", "fumC"}, k.Loci())
}

func TestMask_IndependentOfOrder(t *testing.T) {
	a := []Allele{{"ecoli", "purA", 1}, {"ecoli", "adk", 4}, {"ecoli", "fumC", 2}}
	b := []Allele{{"ecoli", "fumC", 2}, {"ecoli", "purA", 1}, {"ecoli", "adk", 4}}
	loci1 := NewLocusSet("adk", "purA")
	loci2 := NewLocusSet("purA", "adk")

	assert.Equal(t, Mask(a, loci1).Key(), Mask(b, loci2).Key())
}

func TestNewKey_PrefixLocusSortsFirst(t *testing.T) {
	k := NewKey([]Allele{{"ecoli", "gyrB", 1}, {"ecoli", "gyr", 2}})
	assert.Equal(t, []string{"gyr", "gyrB"}, k.Loci())
	assert.Equal(t, NewLocusSet("gyrB", "gyr").Names(), k.Loci(), "key order matches report columns")
}

func TestKey_DistinguishesLocusBoundaries(t *testing.T) {
	x := NewKey([]Allele{{"s", "ab", 1}, {"s", "c", 2}})
	y := NewKey([]Allele{{"s", "a", 1}, {"s", "bc", 2}})
	assert.NotEqual(t, x.Key(), y.Key())
}

func TestNewKey_DoesNotAlias(t *testing.T) {
	in := []Allele{{"s", "b", 1}, {"s", "a", 2}}
	k := NewKey(in)
	assert.Equal(t, "b", in[0].Locus, "input must stay untouched")
	assert.Equal(t, "a", k[0].Locus)
}
