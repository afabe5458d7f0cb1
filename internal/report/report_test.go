package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/copperwood-systems/datascout/internal/correlate"
	"github.com/copperwood-systems/datascout/internal/dataset"
	"github.com/copperwood-systems/datascout/internal/profile"
)

var fixtureRows = []string{
	"x,y,z,city",
	"1,2,5,a",
	"2,4,1,b",
	"3,6,4,a",
	"4,8,2,b",
	"5,10,3,a",
	"100,200,6,b",
}

func loadFixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	path := filepath.Join(t.TempDir(), "t.csv")
	if err := os.WriteFile(path, []byte(strings.Join(fixtureRows, "\n")), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, err := dataset.Load(path, dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return ds
}

func buildFixture(t *testing.T) *Report {
	t.Helper()
	ds := loadFixture(t)
	opt := DefaultOptions()
	opt.Target = "x"
	rep, err := Build(ds, opt)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return rep
}

func TestBuildFullReport(t *testing.T) {
	rep := buildFixture(t)

	if rep.Source.Name != "t.csv" || rep.Source.Format != "csv" {
		t.Fatalf("source = %#v", rep.Source)
	}
	if rep.Source.Sheet != "" || rep.Source.Table != "" {
		t.Fatalf("csv source should have no sheet or table: %#v", rep.Source)
	}
	if rep.Rows != 6 || rep.Columns != 4 {
		t.Fatalf("rows = %d, columns = %d", rep.Rows, rep.Columns)
	}
	if len(rep.Profiles) != 4 {
		t.Fatalf("profiles = %d", len(rep.Profiles))
	}

	if len(rep.Outliers) != 3 {
		t.Fatalf("outliers = %#v", rep.Outliers)
	}
	counts := map[string]int{}
	for _, o := range rep.Outliers {
		counts[o.Column] = o.Count
	}
	if counts["x"] != 1 || counts["y"] != 1 || counts["z"] != 0 {
		t.Fatalf("outlier counts = %#v", counts)
	}

	if rep.Correlation == nil || len(rep.Correlation.Columns) != 3 {
		t.Fatalf("correlation = %#v", rep.Correlation)
	}
	if len(rep.Redundant) != 1 || rep.Redundant[0].A != "x" || rep.Redundant[0].B != "y" {
		t.Fatalf("redundant = %#v", rep.Redundant)
	}

	if len(rep.Groups) != 1 || rep.Groups[0].Column != "city" {
		t.Fatalf("groups = %#v", rep.Groups)
	}
	if rep.Groups[0].Groups[0].Value != "b" { // mean 106/3 beats mean 3
		t.Fatalf("group order = %#v", rep.Groups[0].Groups)
	}

	if len(rep.Samples) != 5 {
		t.Fatalf("samples = %d", len(rep.Samples))
	}
	if rep.Samples[0][0] != "1" || rep.Samples[0][3] != "a" {
		t.Fatalf("first sample = %#v", rep.Samples[0])
	}
	if len(rep.Warnings) != 0 {
		t.Fatalf("warnings = %#v", rep.Warnings)
	}
}

func TestBuildTogglesOff(t *testing.T) {
	ds := loadFixture(t)
	opt := DefaultOptions()
	opt.WithOutliers = false
	opt.WithCorrelations = false
	opt.SampleRows = 0
	rep, err := Build(ds, opt)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rep.Outliers != nil || rep.Correlation != nil || rep.Redundant != nil {
		t.Fatalf("disabled sections present: %#v", rep)
	}
	if rep.Samples != nil || rep.Groups != nil {
		t.Fatalf("unexpected sections: %#v", rep)
	}
	if len(rep.Profiles) != 4 {
		t.Fatal("profiles must always be computed")
	}
}

func TestBuildBadTarget(t *testing.T) {
	ds := loadFixture(t)
	opt := DefaultOptions()
	opt.Target = "nope"
	if _, err := Build(ds, opt); err == nil {
		t.Fatal("expected error for unknown target")
	}
}

func TestBuildSampleRowsCapped(t *testing.T) {
	ds := loadFixture(t)
	opt := DefaultOptions()
	opt.SampleRows = 50
	rep, err := Build(ds, opt)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(rep.Samples) != 6 {
		t.Fatalf("samples = %d, want all 6 rows", len(rep.Samples))
	}
}

func TestAssemble(t *testing.T) {
	parts := Parts{
		Source:   Source{Name: "a.csv", Format: "csv"},
		Rows:     2,
		Profiles: []profile.ColumnProfile{{Name: "x", Kind: "numeric"}},
		Warnings: []string{"w"},
	}
	a := Assemble(parts)
	b := Assemble(parts)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("Assemble is not deterministic")
	}
	if a.Columns != 1 || a.Rows != 2 || a.Source.Name != "a.csv" {
		t.Fatalf("report = %#v", a)
	}
}

func TestEncodeJSONDeterministic(t *testing.T) {
	rep := buildFixture(t)
	var one, two bytes.Buffer
	if err := EncodeJSON(&one, rep); err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	if err := EncodeJSON(&two, rep); err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	if !bytes.Equal(one.Bytes(), two.Bytes()) {
		t.Fatal("JSON encoding is not byte-identical across runs")
	}
	if !strings.HasSuffix(one.String(), "\n") {
		t.Fatal("JSON output should end with a newline")
	}

	var back Report
	if err := json.Unmarshal(one.Bytes(), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Rows != rep.Rows || back.Columns != rep.Columns || len(back.Profiles) != len(rep.Profiles) {
		t.Fatalf("round trip lost data: %#v", back)
	}
}

func TestEncodeYAMLDeterministic(t *testing.T) {
	rep := buildFixture(t)
	var one, two bytes.Buffer
	if err := EncodeYAML(&one, rep); err != nil {
		t.Fatalf("EncodeYAML: %v", err)
	}
	if err := EncodeYAML(&two, rep); err != nil {
		t.Fatalf("EncodeYAML: %v", err)
	}
	if !bytes.Equal(one.Bytes(), two.Bytes()) {
		t.Fatal("YAML encoding is not byte-identical across runs")
	}
	if !strings.Contains(one.String(), "source:") {
		t.Fatalf("yaml output missing source: %s", one.String())
	}
}

func TestRenderSections(t *testing.T) {
	rep := buildFixture(t)
	rep.Warnings = []string{"something worth noting"}

	var buf bytes.Buffer
	Render(&buf, rep, false)
	out := buf.String()

	for _, want := range []string{
		"[DATASET]", "[SCHEMA]", "[NUMERIC SUMMARY]", "[CATEGORICAL VALUES]",
		"[OUTLIERS]", "[CORRELATIONS]", "[REDUNDANT COLUMNS]",
		"[GROUP-BY SUMMARY]", "[HEAD AND SAMPLE ROWS]", "[NOTES]",
		"Source: t.csv", "Rows: 6", "Columns: 4",
		"x ~ y: r=1.000", "- something worth noting",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q", want)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Fatal("color disabled but ANSI codes present")
	}
}

func TestRenderColor(t *testing.T) {
	rep := buildFixture(t)
	var buf bytes.Buffer
	Render(&buf, rep, true)
	if !strings.Contains(buf.String(), "\033[32m") {
		t.Fatal("color enabled but no ANSI codes present")
	}
}

func TestRenderMarkdown(t *testing.T) {
	rep := buildFixture(t)
	var buf bytes.Buffer
	RenderMarkdown(&buf, rep)
	out := buf.String()
	for _, want := range []string{"## Dataset", "## Schema", "## Numeric summary", "## Outliers"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	if strings.Contains(out, "[SCHEMA]") {
		t.Fatal("markdown output contains text-mode section header")
	}
	if !strings.Contains(out, "|") {
		t.Fatal("markdown output missing tables")
	}
}

func TestRenderDatetimeAndText(t *testing.T) {
	mk := func(day int) time.Time { return time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC) }
	rep := Assemble(Parts{
		Source: Source{Name: "x.csv", Format: "csv"},
		Rows:   2,
		Profiles: []profile.ColumnProfile{
			{Name: "joined", Kind: "datetime", TimeRange: &profile.TimeRange{Earliest: mk(2), Latest: mk(25)}},
			{Name: "note", Kind: "text", ExampleTexts: []string{"alpha | beta"}},
		},
	})
	var buf bytes.Buffer
	Render(&buf, rep, false)
	out := buf.String()
	if !strings.Contains(out, "[DATETIME RANGES]") || !strings.Contains(out, "2024-03-02T00:00:00Z to 2024-03-25T00:00:00Z") {
		t.Fatalf("datetime section missing:\n%s", out)
	}
	if !strings.Contains(out, "[TEXT EXAMPLES]") || !strings.Contains(out, "alpha / beta") {
		t.Fatalf("text section missing or pipe not escaped:\n%s", out)
	}
}

func TestRenderSheetAndTable(t *testing.T) {
	rep := Assemble(Parts{Source: Source{Name: "b.xlsx", Format: "xlsx", Sheet: "Data"}, Rows: 1})
	var buf bytes.Buffer
	Render(&buf, rep, false)
	if !strings.Contains(buf.String(), "Sheet: Data") {
		t.Fatalf("sheet line missing:\n%s", buf.String())
	}

	rep = Assemble(Parts{Source: Source{Name: "d.db", Format: "sqlite", Table: "readings"}, Rows: 1})
	buf.Reset()
	Render(&buf, rep, false)
	if !strings.Contains(buf.String(), "Table: readings") {
		t.Fatalf("table line missing:\n%s", buf.String())
	}
}

func TestWriteDOT(t *testing.T) {
	rep := Assemble(Parts{
		Source: Source{Name: "t.csv", Format: "csv"},
		Redundant: []correlate.Pair{
			{A: "x", B: "y", R: 0.95},
			{A: "x", B: "z", R: -0.9},
		},
	})
	var buf bytes.Buffer
	if err := WriteDOT(&buf, rep); err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"graph redundancy", `"x"`, `"y"`, `"z"`, "r=0.950", "r=-0.900", "--"} {
		if !strings.Contains(out, want) {
			t.Errorf("dot output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteDOTEmpty(t *testing.T) {
	rep := Assemble(Parts{Source: Source{Name: "t.csv", Format: "csv"}})
	var buf bytes.Buffer
	if err := WriteDOT(&buf, rep); err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}
	if !strings.Contains(buf.String(), "graph redundancy") {
		t.Fatalf("dot output = %q", buf.String())
	}
}

func TestFmtRows(t *testing.T) {
	if got := fmtRows(nil); got != "" {
		t.Fatalf("fmtRows(nil) = %q", got)
	}
	if got := fmtRows([]int{1, 2}); got != "1, 2" {
		t.Fatalf("fmtRows = %q", got)
	}
	long := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	if got := fmtRows(long); got != "0, 1, 2, 3, 4, 5, 6, 7, +2 more" {
		t.Fatalf("fmtRows(long) = %q", got)
	}
}

func TestCellHelpers(t *testing.T) {
	long := strings.Repeat("a", 100)
	if got := truncateCell(long); len(got) != 80 || !strings.HasSuffix(got, "...") {
		t.Fatalf("truncateCell = %q", got)
	}
	if got := truncateCell("short"); got != "short" {
		t.Fatalf("truncateCell(short) = %q", got)
	}
	if got := safeVal("a\nb|c"); got != "a b/c" {
		t.Fatalf("safeVal = %q", got)
	}
}
