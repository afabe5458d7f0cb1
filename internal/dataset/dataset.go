// Package dataset loads tabular sources (CSV/TSV files, XLSX sheets, SQLite
// tables) into an immutable, column-oriented in-memory dataset with inferred
// column kinds.
package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind is the inferred semantic type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindDatetime    Kind = "datetime"
	KindCategorical Kind = "categorical"
	KindText        Kind = "text"
	KindUnknown     Kind = "unknown"
)

// Column is one named, typed column of a loaded dataset. All slices have the
// dataset's row count as their length.
type Column struct {
	Name string
	Unit string
	Kind Kind

	// Raw holds the trimmed source cell per row ("" where the cell was empty).
	Raw []string
	// Missing marks rows with no usable value: empty cells, missing-marker
	// tokens, and values that failed the column's parse.
	Missing []bool
	// Floats holds parsed values for numeric columns (NaN where Missing).
	Floats []float64
	// Times holds parsed values for datetime columns (zero where Missing).
	Times []time.Time
	// Mismatched counts non-missing source cells that failed the column's
	// parse and were therefore recorded as missing.
	Mismatched int
}

// NonMissing returns the count of usable values in the column.
func (c *Column) NonMissing() int {
	n := 0
	for _, m := range c.Missing {
		if !m {
			n++
		}
	}
	return n
}

// Values returns the column's non-missing numeric values in row order,
// together with their zero-based row indices.
func (c *Column) Values() ([]float64, []int) {
	vals := make([]float64, 0, len(c.Floats))
	rows := make([]int, 0, len(c.Floats))
	for i, v := range c.Floats {
		if c.Missing[i] {
			continue
		}
		vals = append(vals, v)
		rows = append(rows, i)
	}
	return vals, rows
}

// Dataset is an immutable column-oriented view of one tabular source. All
// columns have equal length. It is fully materialized at load time and never
// mutated afterwards; every analysis over it is a derived read-only view.
type Dataset struct {
	source    string
	format    string
	subsource string
	rows      int
	cols      []Column
	truncated bool
	warnings  []string
}

// Source returns the base name of the loaded input.
func (d *Dataset) Source() string { return d.source }

// Format reports the input format: "csv", "tsv", "xlsx", or "sqlite".
func (d *Dataset) Format() string { return d.format }

// Subsource is the sheet or table name for formats that have one.
func (d *Dataset) Subsource() string { return d.subsource }

// Rows returns the number of loaded data rows.
func (d *Dataset) Rows() int { return d.rows }

// Cols returns the dataset's columns. Callers must treat the result as
// read-only.
func (d *Dataset) Cols() []Column { return d.cols }

// Col looks a column up by name, case-insensitively.
func (d *Dataset) Col(name string) (*Column, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i := range d.cols {
		if strings.ToLower(d.cols[i].Name) == want {
			return &d.cols[i], true
		}
	}
	return nil, false
}

// Truncated reports whether loading stopped at the row cap.
func (d *Dataset) Truncated() bool { return d.truncated }

// Warnings returns non-fatal notes collected while loading (row caps,
// filtered rows). Callers must treat the result as read-only.
func (d *Dataset) Warnings() []string { return d.warnings }

// Row returns one data row as raw cells, in column order.
func (d *Dataset) Row(i int) []string {
	out := make([]string, len(d.cols))
	for j := range d.cols {
		out[j] = d.cols[j].Raw[i]
	}
	return out
}

// missingTokens are cell values treated as absent, compared case-insensitively
// after trimming.
var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
}

func isMissing(s string) bool {
	_, ok := missingTokens[strings.ToLower(s)]
	return ok
}

func parseTimeMaybe(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
		"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumeric parses a locale-flexible numeric literal. Percent signs are
// stripped, non-breaking spaces normalized, and decimal/thousands separators
// resolved per value when dec is 0. Non-finite parses are rejected.
func parseNumeric(s string, dec, thou rune) (float64, bool) {
	raw := strings.TrimSpace(s)
	if strings.Contains(raw, "%") {
		raw = strings.ReplaceAll(raw, "%", "")
	}
	raw = strings.ReplaceAll(raw, " ", " ")
	raw = strings.TrimSpace(raw)
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

var unitPatterns = []struct {
	re   *regexp.Regexp
	pick int
}{
	{regexp.MustCompile(`^(.*)\s*\(([^)]+)\)\s*$`), 2},  // e.g., Alpha (%)
	{regexp.MustCompile(`^(.*)\s*\[([^\]]+)\]\s*$`), 2}, // e.g., Mass [mg/L]
	{regexp.MustCompile(`^(.*?)[_\s-]+(mg/L|g/L|ug/L|°[CF]|%|ppm|ppb|ms|kg|km)$`), 2},
}

// splitUnits divides a header cell into a clean column name and a display
// unit suffix, when one is present.
func splitUnits(name string) (clean string, unit string) {
	s := strings.TrimSpace(name)
	for _, p := range unitPatterns {
		if m := p.re.FindStringSubmatch(s); len(m) >= 3 {
			base := strings.TrimSpace(m[1])
			u := strings.TrimSpace(m[p.pick])
			if base != "" && u != "" {
				return base, u
			}
		}
	}
	return s, ""
}
