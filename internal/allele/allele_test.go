package allele

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubjectID(t *testing.T) {
	tests := []struct {
		in   string
		want Allele
	}{
		{"ecoli|adk_4", Allele{"ecoli", "adk", 4}},
		{"abaumannii|gyrB_120", Allele{"abaumannii", "gyrB", 120}},
		{"spp|16S_rRNA_3", Allele{"spp", "16S_rRNA", 3}},
		{"spp|gyr_B2_07", Allele{"spp", "gyr_B2", 7}},
	}
	for _, tt := range tests {
		got, err := ParseSubjectID(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseSubjectID_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"adk_4",        // no species
		"|adk_4",       // empty species
		"ecoli|adk",    // no type
		"ecoli|adk_",   // empty type
		"ecoli|_4",     // empty locus
		"ecoli|adk_x4", // non-numeric type
		"ecoli|adk_-4", // sign is not a digit
		"ecoli|a|dk_4", // second pipe
	} {
		_, err := ParseSubjectID(in)
		assert.Error(t, err, "%q should be rejected", in)
	}
}

func TestAllele_RoundTrip(t *testing.T) {
	a := Allele{Species: "ecoli", Locus: "fumC", Type: 2}
	assert.Equal(t, "fumC_2", a.Token())
	assert.Equal(t, "ecoli|fumC_2", a.SubjectID())

	back, err := ParseSubjectID(a.SubjectID())
	require.NoError(t, err)
	assert.Equal(t, a, back)
}
