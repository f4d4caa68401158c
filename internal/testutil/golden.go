// Package testutil holds helpers shared by package tests.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	difflib "github.com/pmezard/go-difflib/difflib"
)

var update = flag.Bool("update", false, "rewrite golden files with the current output")

// Diff returns a unified diff from want to got, or "" when they match.
func Diff(name string, want, got string) string {
	if want == got {
		return ""
	}
	u := difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: name + " (golden)",
		ToFile:   name + " (actual)",
		Context:  3,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil || s == "" {
		return "--- " + name + " differs"
	}
	return s
}

// Golden compares got against testdata/<name>.golden. Running the tests with
// -update rewrites the file instead.
func Golden(t testing.TB, name string, got []byte) {
	t.Helper()
	path := filepath.Join("testdata", name+".golden")

	if *update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create testdata: %v", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("write golden %s: %v", path, err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden %s: %v (run with -update to create it)", path, err)
	}
	if d := Diff(name, normalize(string(want)), normalize(string(got))); d != "" {
		t.Errorf("output does not match %s:\n%s", path, d)
	}
}

// normalize makes goldens checked out with CRLF line endings compare equal.
func normalize(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
