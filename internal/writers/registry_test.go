package writers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"syscall"
	"testing"

	"stcall/internal/errors"
	"stcall/internal/matcher"
	"stcall/pkg/api"
)

func result(strain, st string) matcher.Result {
	return matcher.Result{
		Strain: strain, Species: "ecoli", Loci: []string{"adk"},
		Status: matcher.StatusAssigned,
		Rows:   []matcher.Row{{ST: st, Alleles: []string{"4"}}},
	}
}

func TestUnknownReportFormatError(t *testing.T) {
	var b bytes.Buffer
	in, done := StartReportWriter(&b, "nope-format", 1, nil)
	close(in) // no payload; writer should error out on dispatch
	err := <-done
	if err == nil || !strings.Contains(err.Error(), "unknown report format") {
		t.Fatalf("want 'unknown report format' error, got: %v", err)
	}
}

func TestStartReportWriter_CSV(t *testing.T) {
	var buf bytes.Buffer
	in, done := StartReportWriter(&buf, "csv", 4, nil)
	in <- result("X", "ST_1")
	in <- result("W", "ST_7")
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("writer err: %v", err)
	}
	want := "Strain,Species,ST,adk\nX,ecoli,ST_1,4\nW,ecoli,ST_7,4\n"
	if buf.String() != want {
		t.Fatalf("csv mismatch:\n got:  %q\n want: %q", buf.String(), want)
	}
}

func TestStartReportWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	conflicts := []matcher.Diagnostic{{Kind: matcher.KindMultiSpecies, Strain: "Z", Message: "hits in 2 species: abaumannii, ecoli"}}
	in, done := StartReportWriter(&buf, "json", 4, conflicts)
	in <- result("X", "ST_1")
	in <- result("W", "ST_7")
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("writer err: %v", err)
	}
	var got api.ReportV1
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil || len(got.Calls) != 2 {
		t.Fatalf("json roundtrip: %v len=%d", err, len(got.Calls))
	}
	if len(got.Diagnostics) != 1 || got.Diagnostics[0].Strain != "Z" || got.Diagnostics[0].Kind != "multi_species" {
		t.Fatalf("conflict missing from report: %+v", got.Diagnostics)
	}
}

func TestReportJSONL_StreamsValidV1(t *testing.T) {
	var buf bytes.Buffer
	in, done := StartReportWriter(&buf, "jsonl", 2, nil)
	multi := result("M", "ST_1")
	multi.Status = matcher.StatusAmbiguous
	multi.Rows = append(multi.Rows, matcher.Row{ST: "ST_2", Alleles: []string{"4"}})
	in <- result("X", "ST_1")
	in <- multi
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("writer err: %v", err)
	}

	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	var n int
	for sc.Scan() {
		n++
		var v api.STCallV1
		if err := json.Unmarshal(sc.Bytes(), &v); err != nil {
			t.Fatalf("bad json line %d: %v\n%s", n, err, sc.Text())
		}
	}
	if n != 3 {
		t.Fatalf("want 3 lines (one per ST), got %d", n)
	}
}

type failWriter struct{ err error }

func (f failWriter) Write([]byte) (int, error) { return 0, f.err }

func TestStartReportWriter_DrainsAfterError(t *testing.T) {
	for _, format := range []string{"csv", "jsonl", "json"} {
		t.Run(format, func(t *testing.T) {
			in, done := StartReportWriter(failWriter{io.ErrShortWrite}, format, 1, nil)
			for i := 0; i < 200; i++ { // far more than the buffer; must not block
				in <- result("X", "ST_1")
			}
			close(in)
			if err := <-done; !errors.Is(err, io.ErrShortWrite) {
				t.Fatalf("want short write, got %v", err)
			}
		})
	}
}

func TestStartReportWriter_BrokenPipeIsSilent(t *testing.T) {
	in, done := StartReportWriter(failWriter{syscall.EPIPE}, "csv", 1, nil)
	in <- result("X", "ST_1")
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("broken pipe should be silent, got %v", err)
	}
}
