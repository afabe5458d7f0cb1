package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func colorize(s, color string, enabled bool) string {
	if !enabled {
		return s
	}
	return color + s + colorReset
}

// Render writes the report as plain-text sections with aligned tables.
func Render(w io.Writer, r *Report, color bool) {
	render(w, r, color, false)
}

// RenderMarkdown writes the report with markdown headings and tables.
func RenderMarkdown(w io.Writer, r *Report) {
	render(w, r, false, true)
}

func render(w io.Writer, r *Report, color, markdown bool) {
	section := func(plain, md string) {
		if markdown {
			fmt.Fprintf(w, "## %s\n\n", md)
		} else {
			fmt.Fprintln(w, colorize("["+plain+"]", colorGreen, color))
		}
	}
	flush := func(t table.Writer) {
		t.SetOutputMirror(w)
		if markdown {
			t.RenderMarkdown()
		} else {
			t.Render()
		}
		fmt.Fprintln(w)
	}

	section("DATASET", "Dataset")
	fmt.Fprintf(w, "Source: %s\n", r.Source.Name)
	fmt.Fprintf(w, "Format: %s\n", r.Source.Format)
	if r.Source.Sheet != "" {
		fmt.Fprintf(w, "Sheet: %s\n", r.Source.Sheet)
	}
	if r.Source.Table != "" {
		fmt.Fprintf(w, "Table: %s\n", r.Source.Table)
	}
	fmt.Fprintf(w, "Rows: %s\n", humanize.Comma(int64(r.Rows)))
	if r.Columns > 0 {
		fmt.Fprintf(w, "Columns: %d\n", r.Columns)
	}
	fmt.Fprintln(w)

	if len(r.Profiles) > 0 {
		section("SCHEMA", "Schema")
		t := table.NewWriter()
		t.AppendHeader(table.Row{"Column", "Kind", "Unit", "Non-null", "Missing", "Miss %"})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Name: "Non-null", Align: text.AlignRight},
			{Name: "Missing", Align: text.AlignRight},
			{Name: "Miss %", Align: text.AlignRight},
		})
		for _, p := range r.Profiles {
			t.AppendRow(table.Row{p.Name, p.Kind, p.Unit, p.Count, p.Missing, fmt.Sprintf("%.1f%%", p.MissingRatio*100)})
		}
		flush(t)
	}

	var numeric, categorical, datetimes, texts []int
	for i, p := range r.Profiles {
		switch {
		case p.Numeric != nil:
			numeric = append(numeric, i)
		case len(p.TopValues) > 0:
			categorical = append(categorical, i)
		case p.TimeRange != nil:
			datetimes = append(datetimes, i)
		case len(p.ExampleTexts) > 0:
			texts = append(texts, i)
		}
	}

	if len(numeric) > 0 {
		section("NUMERIC SUMMARY", "Numeric summary")
		t := table.NewWriter()
		t.AppendHeader(table.Row{"Column", "Mean", "Std", "Min", "Q1", "Median", "Q3", "Max", "Skew", "Kurt"})
		for _, i := range numeric {
			p := r.Profiles[i]
			ns := p.Numeric
			t.AppendRow(table.Row{
				p.Name, fmtF(ns.Mean), fmtF(ns.Std), fmtF(ns.Min), fmtF(ns.Q1),
				fmtF(ns.Median), fmtF(ns.Q3), fmtF(ns.Max), fmtF(ns.Skew), fmtF(ns.Kurtosis),
			})
		}
		flush(t)
	}

	if len(categorical) > 0 {
		section("CATEGORICAL VALUES", "Categorical values")
		for _, i := range categorical {
			p := r.Profiles[i]
			tops := make([]string, 0, len(p.TopValues))
			for _, tv := range p.TopValues {
				tops = append(tops, fmt.Sprintf("%s(%d, %.1f%%)", safeVal(tv.Value), tv.Count, tv.Ratio*100))
			}
			fmt.Fprintf(w, "- %s: %s", p.Name, strings.Join(tops, ", "))
			if p.Unique > len(p.TopValues) {
				fmt.Fprintf(w, "; unique=%d", p.Unique)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	if len(datetimes) > 0 {
		section("DATETIME RANGES", "Datetime ranges")
		for _, i := range datetimes {
			p := r.Profiles[i]
			fmt.Fprintf(w, "- %s: %s to %s\n", p.Name,
				p.TimeRange.Earliest.Format(time.RFC3339), p.TimeRange.Latest.Format(time.RFC3339))
		}
		fmt.Fprintln(w)
	}

	if len(texts) > 0 {
		section("TEXT EXAMPLES", "Text examples")
		for _, i := range texts {
			p := r.Profiles[i]
			exs := make([]string, 0, len(p.ExampleTexts))
			for _, e := range p.ExampleTexts {
				exs = append(exs, safeVal(truncateCell(e)))
			}
			fmt.Fprintf(w, "- %s: e.g., %s\n", p.Name, strings.Join(exs, " | "))
		}
		fmt.Fprintln(w)
	}

	if len(r.Outliers) > 0 {
		section("OUTLIERS", "Outliers")
		t := table.NewWriter()
		t.AppendHeader(table.Row{"Column", "Q1", "Q3", "Lower", "Upper", "Count", "Ratio", "Rows"})
		t.SetColumnConfigs([]table.ColumnConfig{{Name: "Count", Align: text.AlignRight}})
		for _, o := range r.Outliers {
			cnt := strconv.Itoa(o.Count)
			if o.Count > 0 {
				cnt = colorize(cnt, colorYellow, color)
			}
			t.AppendRow(table.Row{
				o.Column, fmtF(o.Q1), fmtF(o.Q3), fmtF(o.Lower), fmtF(o.Upper),
				cnt, fmt.Sprintf("%.1f%%", o.Ratio*100), fmtRows(o.Rows),
			})
		}
		flush(t)
	}

	if r.Correlation != nil && len(r.Correlation.Columns) >= 2 {
		section("CORRELATIONS", "Correlations")
		t := table.NewWriter()
		head := table.Row{""}
		for _, c := range r.Correlation.Columns {
			head = append(head, c)
		}
		t.AppendHeader(head)
		for i, name := range r.Correlation.Columns {
			row := table.Row{name}
			for j := range r.Correlation.Columns {
				row = append(row, fmt.Sprintf("%.3f", r.Correlation.Values[i][j]))
			}
			t.AppendRow(row)
		}
		flush(t)
	}

	if len(r.Redundant) > 0 {
		section("REDUNDANT COLUMNS", "Redundant columns")
		for _, p := range r.Redundant {
			fmt.Fprintln(w, colorize(fmt.Sprintf("- %s ~ %s: r=%.3f", p.A, p.B, p.R), colorYellow, color))
		}
		fmt.Fprintln(w)
	}

	if len(r.Groups) > 0 {
		section("GROUP-BY SUMMARY", "Group summary")
		for _, g := range r.Groups {
			fmt.Fprintf(w, "%s by %s:\n", g.Target, g.Column)
			t := table.NewWriter()
			t.AppendHeader(table.Row{"Value", "Count", "Mean", "Min", "Max"})
			t.SetColumnConfigs([]table.ColumnConfig{{Name: "Count", Align: text.AlignRight}})
			for _, gs := range g.Groups {
				t.AppendRow(table.Row{safeVal(gs.Value), gs.Count, fmtF(gs.Mean), fmtF(gs.Min), fmtF(gs.Max)})
			}
			flush(t)
		}
	}

	if len(r.Samples) > 0 && len(r.Profiles) > 0 {
		section("HEAD AND SAMPLE ROWS", "Sample rows")
		t := table.NewWriter()
		head := table.Row{}
		for _, p := range r.Profiles {
			head = append(head, p.Name)
		}
		t.AppendHeader(head)
		for _, rec := range r.Samples {
			row := table.Row{}
			for i := range r.Profiles {
				val := ""
				if i < len(rec) {
					val = truncateCell(rec[i])
				}
				row = append(row, safeVal(val))
			}
			t.AppendRow(row)
		}
		flush(t)
	}

	if len(r.Warnings) > 0 {
		section("NOTES", "Notes")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "- %s\n", warn)
		}
	}
}

func fmtF(v float64) string {
	return fmt.Sprintf("%.4g", v)
}

// fmtRows compacts a row index list for display.
func fmtRows(rows []int) string {
	const show = 8
	if len(rows) == 0 {
		return ""
	}
	parts := make([]string, 0, show)
	for i, r := range rows {
		if i >= show {
			parts = append(parts, fmt.Sprintf("+%d more", len(rows)-show))
			break
		}
		parts = append(parts, strconv.Itoa(r))
	}
	return strings.Join(parts, ", ")
}

func truncateCell(s string) string {
	if len(s) > 80 {
		return s[:77] + "..."
	}
	return s
}

func safeVal(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
