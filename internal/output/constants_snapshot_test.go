package output

import (
	"strings"
	"testing"
)

func TestReportHeader_Stable(t *testing.T) {
	const want = "Strain,Species,ST,adk,fumC"
	if got := strings.Join(ReportHeader([]string{"adk", "fumC"}), ","); got != want {
		t.Fatalf("ReportHeader changed:\n got:  %q\n want: %q", got, want)
	}
}
