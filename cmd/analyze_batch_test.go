package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBatch_GlobToOutDir(t *testing.T) {
	home := tempHome(t)

	// Two CSVs in different directories, matched by one glob.
	d1 := filepath.Join(home, "d1")
	d2 := filepath.Join(home, "d2")
	if err := os.MkdirAll(d1, 0o755); err != nil {
		t.Fatalf("mkdir d1: %v", err)
	}
	if err := os.MkdirAll(d2, 0o755); err != nil {
		t.Fatalf("mkdir d2: %v", err)
	}
	writeFile(t, d1, "alpha.csv", sampleCSV)
	writeFile(t, d2, "beta.csv", sampleCSV)

	outDir := filepath.Join(home, "reports")
	runCmd(t, "analyze-batch", filepath.Join(home, "d*", "*.csv"),
		"--out-dir", outDir, "--quiet")

	for _, name := range []string{"alpha.report.md", "beta.report.md"} {
		body, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("missing report %s: %v", name, err)
		}
		if !strings.Contains(string(body), "## Dataset") {
			t.Fatalf("%s is not a markdown report:\n%s", name, body)
		}
	}
}

func TestBatch_JSONNextToInput(t *testing.T) {
	home := tempHome(t)
	writeFile(t, home, "data.csv", sampleCSV)

	runCmd(t, "analyze-batch", filepath.Join(home, "data.csv"), "-f", "json", "--quiet")

	rep := readReport(t, filepath.Join(home, "data.report.json"))
	if rep.Rows != 6 || len(rep.Profiles) != 4 {
		t.Fatalf("rows = %d, profiles = %d", rep.Rows, len(rep.Profiles))
	}
}

func TestBatch_KeepGoing(t *testing.T) {
	home := tempHome(t)
	writeFile(t, home, "bad.csv", "a,b\n1,2,3\n")
	writeFile(t, home, "good.csv", sampleCSV)

	// bad.csv sorts first and aborts the run before good.csv is reached.
	err := tryCmd("analyze-batch", filepath.Join(home, "*.csv"), "--quiet")
	if err == nil || !strings.Contains(err.Error(), "bad.csv") {
		t.Fatalf("err = %v, want failure on bad.csv", err)
	}
	if _, err := os.Stat(filepath.Join(home, "good.report.md")); err == nil {
		t.Fatalf("good.csv should not have been analyzed after the failure")
	}

	runCmd(t, "analyze-batch", filepath.Join(home, "*.csv"), "--quiet", "--keep-going")

	if _, err := os.Stat(filepath.Join(home, "good.report.md")); err != nil {
		t.Fatalf("missing report for good.csv: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, "bad.report.md")); err == nil {
		t.Fatalf("unexpected report for bad.csv")
	}
}

func TestBatch_NoMatches(t *testing.T) {
	home := tempHome(t)

	err := tryCmd("analyze-batch", filepath.Join(home, "none-*.csv"))
	if err == nil || !strings.Contains(err.Error(), "no input files matched") {
		t.Fatalf("err = %v, want no-match error", err)
	}
}
