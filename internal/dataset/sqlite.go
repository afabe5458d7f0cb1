package dataset

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

var validIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadSQLite reads one table of a SQLite database file, named by
// Options.Table. Cell values come back as strings and go through the same
// kind inference as text sources.
func LoadSQLite(path string, opt Options) (*Dataset, error) {
	// The driver creates missing files on open, so check first.
	if _, err := os.Stat(path); err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer db.Close()

	// SQLite only allows one writer at a time, and we never write.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA query_only = ON"); err != nil {
		return nil, &IOError{Path: path, Err: fmt.Errorf("failed to set read-only mode: %w", err)}
	}

	table := opt.Table
	if table == "" {
		names, err := listTables(db)
		if err != nil {
			return nil, &IOError{Path: path, Err: err}
		}
		if len(names) == 1 {
			table = names[0]
		} else {
			return nil, fmt.Errorf("database has %d tables (%s), pick one with --db-table", len(names), strings.Join(names, ", "))
		}
	}
	if !validIdent.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	rows, err := db.Query("SELECT * FROM " + table)
	if err != nil {
		return nil, &IOError{Path: path, Err: fmt.Errorf("table %q: %w", table, err)}
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	ncol := len(header)

	var records [][]string
	truncated := false
	vals := make([]any, ncol)
	ptrs := make([]any, ncol)
	for j := range vals {
		ptrs[j] = &vals[j]
	}
	for rows.Next() {
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			truncated = true
			break
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &IOError{Path: path, Err: fmt.Errorf("table %q: %w", table, err)}
		}
		rec := make([]string, ncol)
		for j, v := range vals {
			rec[j] = cellString(v)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &IOError{Path: path, Err: fmt.Errorf("table %q: %w", table, err)}
	}

	return build(source{name: filepath.Base(path), format: "sqlite", subsource: table, truncated: truncated}, header, records, opt)
}

func listTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
