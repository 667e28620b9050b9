package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stcall/internal/blast"
	"stcall/internal/matcher"
	"stcall/pkg/api"
)

func TestWriteCSV_HeaderPerLocusSet(t *testing.T) {
	var buf bytes.Buffer
	results := append(sampleResults(), matcher.Result{
		Strain: "W", Species: "ecoli", Loci: []string{"adk"},
		Status: matcher.StatusAssigned,
		Rows:   []matcher.Row{{ST: "ST_7", Alleles: []string{"1"}}},
	})
	require.NoError(t, WriteCSV(&buf, results))

	want := "Strain,Species,ST,adk,fumC\n" +
		"X,ecoli,ST_1,4,2\n" +
		"Strain,Species,ST,adk\n" +
		"Y,ecoli,NA,9\n" +
		"W,ecoli,ST_7,1\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_MultiSTRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []matcher.Result{{
		Strain: "M", Species: "ecoli", Loci: []string{"adk"},
		Status: matcher.StatusAmbiguous,
		Rows: []matcher.Row{
			{ST: "ST_1", Alleles: []string{"4/7"}},
			{ST: "ST_2", Alleles: []string{"4/7"}},
		},
	}}))
	assert.Equal(t, "Strain,Species,ST,adk\nM,ecoli,ST_1,4/7\nM,ecoli,ST_2,4/7\n", buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestWriteHitTable(t *testing.T) {
	acc := blast.HitRecord{QueryID: "X_adk", SubjectID: "ecoli|adk_4", Length: 536, Identity: 100}
	rej := blast.HitRecord{QueryID: "X_fumC", SubjectID: "ecoli|fumC_2", Length: 150, Identity: 99.5}
	var buf bytes.Buffer
	require.NoError(t, WriteHitTable(&buf, []blast.QueryResult{
		{QueryID: "X_adk", Status: blast.Accepted, Hit: &acc},
		{QueryID: "X_fumC", Status: blast.Rejected, Hit: &rej},
		{QueryID: "X_gyrB", Status: blast.NoHit},
	}))
	want := "X_adk\tecoli|adk_4\t536\t100.00\n" +
		"X_fumC\tNo hits\t150\t99.50\n" +
		"X_gyrB\tNo hits\t0\t0.00\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteHitJSONL(t *testing.T) {
	rej := blast.HitRecord{QueryID: "X_fumC", SubjectID: "ecoli|fumC_2", Length: 150, Identity: 99.5, EValue: 1e-60, BitScore: 270}
	var buf bytes.Buffer
	require.NoError(t, WriteHitJSONL(&buf, []blast.QueryResult{
		{QueryID: "X_fumC", Status: blast.Rejected, Hit: &rej},
		{QueryID: "X_gyrB", Status: blast.NoHit},
	}))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	var first api.HitV1
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, api.HitV1{QueryID: "X_fumC", Status: "rejected", SubjectID: "ecoli|fumC_2", Length: 150, Identity: 99.5, EValue: 1e-60, BitScore: 270}, first)
	assert.Equal(t, `{"query_id":"X_gyrB","status":"no_hit","length":0,"identity":0}`, lines[1])
}

func TestWritePretty_TablePerLocusSet(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	var buf bytes.Buffer
	require.NoError(t, WritePretty(&buf, sampleReport()))
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "loci: "))
	assert.Contains(t, out, "loci: adk, fumC")
	assert.Contains(t, out, "ST_1")
	assert.Contains(t, out, "NA")
	assert.Contains(t, out, "! Z: hits span 2 species")
	assert.NotContains(t, out, "no ecoli profile", "not_assigned is not a warning")
}
