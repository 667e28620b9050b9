package catalog

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stcall/internal/allele"
	"stcall/internal/errors"
)

const sample = `# E. coli Achtman scheme, trimmed
ST	adk	fumC	gyrB	clonal_complex
ecoli|ST_1	ecoli|adk_4	ecoli|fumC_2	ecoli|gyrB_1	CC10
ecoli|ST_2	ecoli|adk_4	ecoli|fumC_2	ecoli|gyrB_9	CC10

abaumannii|1	abaumannii|gltA_1	abaumannii|gyrB_3
`

func parse(t *testing.T, in string) *Catalog {
	t.Helper()
	c, err := Parse(strings.NewReader(in), "cat.tsv", DefaultOptions())
	require.NoError(t, err)
	return c
}

func TestParse_Sample(t *testing.T) {
	c := parse(t, sample)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"abaumannii", "ecoli"}, c.Species())

	ec := c.Profiles("ecoli")
	require.Len(t, ec, 2)
	assert.Equal(t, "ST_1", ec[0].ID)
	assert.Equal(t, []allele.Allele{
		{Species: "ecoli", Locus: "adk", Type: 4},
		{Species: "ecoli", Locus: "fumC", Type: 2},
		{Species: "ecoli", Locus: "gyrB", Type: 1},
	}, ec[0].Alleles, "clonal complex column is not an allele; column order kept")
	assert.Equal(t, 3, ec[0].Line)

	ab := c.Profiles("abaumannii")
	require.Len(t, ab, 1)
	assert.Equal(t, "1", ab[0].ID)

	assert.Nil(t, c.Profiles("kpneumoniae"))
	assert.Equal(t, []string{"adk", "fumC", "gyrB"}, c.Loci("ecoli").Names())
}

func TestParse_HeaderWithoutAnnotationKeepsAllColumns(t *testing.T) {
	c := parse(t, "ST\tadk\tfumC\necoli|7\tecoli|adk_1\tecoli|fumC_5\n")
	require.Len(t, c.Profiles("ecoli")[0].Alleles, 2)
}

func TestParse_HeaderIsCaseInsensitiveAndScoped(t *testing.T) {
	in := "ST\tadk\tCC\n" +
		"ecoli|1\tecoli|adk_1\tCC5\n" +
		"ST\tgltA\tgyrB\n" + // next header lifts the cutoff
		"abaumannii|1\tabaumannii|gltA_1\tabaumannii|gyrB_2\n"
	c := parse(t, in)
	assert.Len(t, c.Profiles("ecoli")[0].Alleles, 1)
	assert.Len(t, c.Profiles("abaumannii")[0].Alleles, 2)
}

func TestParse_MalformedRowAfterDataIsFatal(t *testing.T) {
	in := "ST\tadk\tfumC\tclonal_complex\n" +
		"ecoli|1\tecoli|adk_1\tecoli|fumC_5\tCC10\n" +
		"garbage line here\n" +
		"ecoli|2\tecoli|adk_2\tecoli|fumC_5\tCC10\n"
	_, err := Parse(strings.NewReader(in), "cat.tsv", DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.IsFormatError(err))
	assert.Contains(t, err.Error(), "cat.tsv:3")
	assert.Contains(t, err.Error(), "want species|ST")
}

func TestParse_CustomNonAlleleColumns(t *testing.T) {
	in := "ST\tadk\tnote\necoli|1\tecoli|adk_1\tfree text\n"
	c, err := Parse(strings.NewReader(in), "", Options{NonAlleleColumns: []string{"NOTE"}})
	require.NoError(t, err)
	assert.Len(t, c.Profiles("ecoli")[0].Alleles, 1)
}

func TestParse_FormatErrors(t *testing.T) {
	tests := map[string]string{
		"unflagged trailing column": "ecoli|1\tecoli|adk_1\tCC10\n",
		"species mismatch":          "ecoli|1\tecoli|adk_1\tsenterica|fumC_2\n",
		"malformed allele":          "ecoli|1\tecoli|adk-1\n",
		"empty ST id":               "ecoli|\tecoli|adk_1\n",
		"empty species":             "|3\tecoli|adk_1\n",
		"no allele columns":         "ecoli|1\n",
		"repeated locus":            "ecoli|1\tecoli|adk_1\tecoli|adk_2\n",
		"duplicate ST":              "ecoli|1\tecoli|adk_1\necoli|1\tecoli|adk_2\n",
		"species prefix missing":    "ecoli|ST_1\tecoli|adk_4\tecoli|fumC_2\nST_2\tecoli|adk_5\tecoli|fumC_3\n",
		"leading row with alleles":  "ST_2\tecoli|adk_5\tecoli|fumC_3\n",
		"stray line after data":     "ST\tadk\tclonal_complex\necoli|1\tecoli|adk_1\tCC10\ngarbage line here\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(in), "cat.tsv", DefaultOptions())
			require.Error(t, err)
			assert.True(t, errors.IsFormatError(err), "got %v", err)
			assert.Contains(t, err.Error(), "cat.tsv:")
		})
	}
}

func TestParse_TrailingTabsIgnored(t *testing.T) {
	c := parse(t, "ecoli|1\tecoli|adk_1\t\t\r\n")
	assert.Len(t, c.Profiles("ecoli")[0].Alleles, 1)
}

func TestLoad_Gzip(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "profiles.tsv.gz")
	fh, err := os.Create(fn)
	require.NoError(t, err)
	gw := gzip.NewWriter(fh)
	_, err = gw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())

	c, err := Load(fn, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.tsv"), DefaultOptions())
	require.Error(t, err)
	assert.False(t, errors.IsFormatError(err))
}
