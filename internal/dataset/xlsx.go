package dataset

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads one sheet of an Excel workbook. The sheet is picked by
// Options.SheetName when set, otherwise by the 1-based Options.SheetIndex.
//
// excelize drops trailing empty cells from each row, so rows shorter than the
// header are padded with empty cells; rows wider than the header are still a
// FormatError.
func LoadXLSX(path string, opt Options) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &IOError{Path: path, Err: fmt.Errorf("workbook has no sheets")}
	}
	sheet := opt.SheetName
	if sheet == "" {
		idx := opt.SheetIndex
		if idx < 1 {
			idx = 1
		}
		if idx > len(sheets) {
			return nil, &IOError{Path: path, Err: fmt.Errorf("sheet index %d out of range, workbook has %d sheet(s)", idx, len(sheets))}
		}
		sheet = sheets[idx-1]
	}

	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, &IOError{Path: path, Err: fmt.Errorf("sheet %q: %w", sheet, err)}
	}
	if len(all) == 0 {
		return &Dataset{source: filepath.Base(path), format: "xlsx", subsource: sheet}, nil
	}

	header := all[0]
	ncol := len(header)
	var records [][]string
	truncated := false
	for row, rec := range all[1:] {
		if len(rec) > ncol {
			return nil, &FormatError{Row: row, Msg: fmt.Sprintf("%d cells, header has %d", len(rec), ncol)}
		}
		if len(rec) < ncol {
			padded := make([]string, ncol)
			copy(padded, rec)
			rec = padded
		}
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			truncated = true
			break
		}
		records = append(records, rec)
	}

	return build(source{name: filepath.Base(path), format: "xlsx", subsource: sheet, truncated: truncated}, header, records, opt)
}
