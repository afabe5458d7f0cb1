package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/copperwood-systems/datascout/internal/filter"
)

// Options controls loading behavior for tabular sources.
type Options struct {
	// MaxRows limits data rows loaded; 0 means unlimited. Loading stops at
	// the cap, so structural errors past it go unnoticed.
	MaxRows int
	// Delimiter for CSV. If 0, sniffed from the file extension (',' or '\t').
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// Where filters rows at load time using an expression over column names.
	Where string
	// SheetName and SheetIndex select the XLSX sheet; the name wins when both
	// are set, and the index is 1-based.
	SheetName  string
	SheetIndex int
	// Table names the SQLite table to load.
	Table string
}

// DefaultOptions returns reasonable defaults for dataset loading.
func DefaultOptions() Options {
	return Options{
		MaxRows:    100000,
		SheetIndex: 1,
	}
}

// Load reads the tabular file at path into an immutable Dataset. The reader
// is chosen by extension: .xlsx uses the spreadsheet reader, .db/.sqlite/
// .sqlite3 the SQLite reader, and everything else the CSV reader.
func Load(path string, opt Options) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(path, opt)
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(path, opt)
	default:
		return LoadCSV(path, opt)
	}
}

// LoadCSV reads a delimited text file. Every data row must have exactly the
// header's field count; a shorter or longer row is a FormatError carrying the
// zero-based data-row index.
func LoadCSV(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	format := "csv"
	if delim == '\t' {
		format = "tsv"
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Dataset{source: filepath.Base(path), format: format}, nil
		}
		return nil, &IOError{Path: path, Err: err}
	}
	ncol := len(header)

	var records [][]string
	truncated := false
	for row := 0; ; row++ {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &FormatError{Row: row, Msg: pe.Err.Error()}
			}
			return nil, &IOError{Path: path, Err: err}
		}
		if len(rec) != ncol {
			return nil, &FormatError{Row: row, Msg: fmt.Sprintf("%d fields, header has %d", len(rec), ncol)}
		}
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			truncated = true
			break
		}
		records = append(records, rec)
	}

	return build(source{name: filepath.Base(path), format: format, truncated: truncated}, header, records, opt)
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

// source carries loader-level metadata into build.
type source struct {
	name      string
	format    string
	subsource string
	truncated bool
}

// build runs the shared load path over raw records: the row filter, kind
// inference across non-missing cells, and typed column materialization.
func build(src source, header []string, records [][]string, opt Options) (*Dataset, error) {
	ncol := len(header)
	names := make([]string, ncol)
	units := make([]string, ncol)
	for j, h := range header {
		clean, unit := splitUnits(strings.TrimSpace(h))
		if clean == "" {
			clean = fmt.Sprintf("column_%d", j+1)
		}
		names[j] = clean
		units[j] = unit
	}

	d := &Dataset{
		source:    src.name,
		format:    src.format,
		subsource: src.subsource,
		truncated: src.truncated,
	}
	if src.truncated {
		d.warnings = append(d.warnings, fmt.Sprintf("row cap reached: loaded first %d data rows", len(records)))
	}

	if opt.Where != "" {
		flt, err := filter.Compile(opt.Where, names)
		if err != nil {
			return nil, err
		}
		kept := make([][]string, 0, len(records))
		excluded, errored := 0, 0
		for _, rec := range records {
			ok, err := flt.Match(rec)
			if err != nil {
				errored++
				continue
			}
			if !ok {
				excluded++
				continue
			}
			kept = append(kept, rec)
		}
		if excluded > 0 || errored > 0 {
			d.warnings = append(d.warnings, fmt.Sprintf("where filter excluded %d of %d rows", excluded+errored, len(records)))
		}
		if errored > 0 {
			d.warnings = append(d.warnings, fmt.Sprintf("where filter errored on %d rows (excluded)", errored))
		}
		records = kept
	}
	rows := len(records)
	d.rows = rows

	// First pass: count parse outcomes per column to decide its kind.
	type colAcc struct {
		numCnt int
		dtCnt  int
		txtCnt int
		unit   string
		cats   map[string]struct{}
	}
	accs := make([]colAcc, ncol)
	for j := range accs {
		accs[j].cats = make(map[string]struct{})
	}
	for _, rec := range records {
		for j := 0; j < ncol; j++ {
			v := strings.TrimSpace(rec[j])
			if isMissing(v) {
				continue
			}
			a := &accs[j]
			if strings.Contains(v, "%") && a.unit == "" && units[j] == "" {
				a.unit = "%"
			}
			if _, ok := parseNumeric(v, opt.DecimalSeparator, opt.ThousandsSeparator); ok {
				a.numCnt++
				continue
			}
			if _, ok := parseTimeMaybe(v); ok {
				a.dtCnt++
				continue
			}
			a.txtCnt++
			if len(v) <= 64 && len(a.cats) <= 10000 {
				a.cats[v] = struct{}{}
			}
		}
	}

	// Second pass: materialize typed columns; values that fail the decided
	// kind's parse are recorded as missing and counted as mismatches.
	d.cols = make([]Column, ncol)
	for j := 0; j < ncol; j++ {
		a := &accs[j]
		unit := units[j]
		if unit == "" {
			unit = a.unit
		}
		kind := KindUnknown
		switch {
		case a.numCnt > 0 && a.numCnt >= a.dtCnt && a.numCnt >= a.txtCnt:
			kind = KindNumeric
		case a.dtCnt > 0 && a.dtCnt >= a.txtCnt:
			kind = KindDatetime
		case len(a.cats) > 0:
			kind = KindCategorical
		case a.txtCnt > 0:
			kind = KindText
		}

		col := Column{
			Name:    names[j],
			Unit:    unit,
			Kind:    kind,
			Raw:     make([]string, rows),
			Missing: make([]bool, rows),
		}
		if kind == KindNumeric {
			col.Floats = make([]float64, rows)
		}
		if kind == KindDatetime {
			col.Times = make([]time.Time, rows)
		}
		var firstMismatch *TypeMismatchError
		for i, rec := range records {
			v := strings.TrimSpace(rec[j])
			col.Raw[i] = v
			if isMissing(v) {
				col.Missing[i] = true
				if kind == KindNumeric {
					col.Floats[i] = math.NaN()
				}
				continue
			}
			switch kind {
			case KindNumeric:
				if x, ok := parseNumeric(v, opt.DecimalSeparator, opt.ThousandsSeparator); ok {
					col.Floats[i] = x
				} else {
					col.Floats[i] = math.NaN()
					col.Missing[i] = true
					col.Mismatched++
					if firstMismatch == nil {
						firstMismatch = &TypeMismatchError{Column: col.Name, Row: i, Value: v}
					}
				}
			case KindDatetime:
				if t, ok := parseTimeMaybe(v); ok {
					col.Times[i] = t
				} else {
					col.Missing[i] = true
					col.Mismatched++
					if firstMismatch == nil {
						firstMismatch = &TypeMismatchError{Column: col.Name, Row: i, Value: v}
					}
				}
			}
		}
		if col.Mismatched > 0 {
			d.warnings = append(d.warnings, fmt.Sprintf("%d value(s) recorded as missing in column %s (first: %v)", col.Mismatched, col.Name, firstMismatch))
		}
		d.cols[j] = col
	}

	return d, nil
}
