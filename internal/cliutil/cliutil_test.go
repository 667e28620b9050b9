package cliutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPositionals(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.blast")
	b := filepath.Join(dir, "b.blast")
	_ = os.WriteFile(a, []byte("# Query: a\n"), 0o644)
	_ = os.WriteFile(b, []byte("# Query: b\n"), 0o644)
	got, err := ExpandPositionals([]string{filepath.Join(dir, "*.blast"), "-", "plain.tsv"})
	if err != nil || len(got) != 4 {
		t.Fatalf("expand: err=%v got=%v", err, got)
	}
	if got[0] != a || got[1] != b || got[2] != "-" || got[3] != "plain.tsv" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestExpandPositionals_NoMatch(t *testing.T) {
	if _, err := ExpandPositionals([]string{filepath.Join(t.TempDir(), "*.tsv")}); err == nil {
		t.Fatal("want error for a glob with no matches")
	}
}

func TestExpandPositionals_StdinOnce(t *testing.T) {
	if _, err := ExpandPositionals([]string{"-", "-"}); err == nil {
		t.Fatal("want error for repeated stdin")
	}
}
