package dataset

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func seedSQLite(t *testing.T, stmts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	return path
}

func TestLoadSQLiteSingleTable(t *testing.T) {
	path := seedSQLite(t,
		"CREATE TABLE readings (id INTEGER, score REAL, city TEXT)",
		"INSERT INTO readings VALUES (1, 10.5, 'austin')",
		"INSERT INTO readings VALUES (2, NULL, 'boston')",
		"INSERT INTO readings VALUES (3, 9.5, 'austin')",
	)
	ds, err := Load(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Format() != "sqlite" || ds.Subsource() != "readings" {
		t.Fatalf("format = %q, subsource = %q", ds.Format(), ds.Subsource())
	}
	if ds.Rows() != 3 {
		t.Fatalf("rows = %d, want 3", ds.Rows())
	}

	id, _ := ds.Col("id")
	if id.Kind != KindNumeric || id.Floats[2] != 3 {
		t.Fatalf("id column = %#v", id)
	}
	score, _ := ds.Col("score")
	if score.Kind != KindNumeric {
		t.Fatalf("score kind = %q", score.Kind)
	}
	if !score.Missing[1] || score.NonMissing() != 2 {
		t.Fatalf("score missing = %v", score.Missing)
	}
	if score.Floats[0] != 10.5 {
		t.Fatalf("score[0] = %v", score.Floats[0])
	}
	city, _ := ds.Col("city")
	if city.Kind != KindCategorical {
		t.Fatalf("city kind = %q", city.Kind)
	}
}

func TestLoadSQLiteTablePickRequired(t *testing.T) {
	path := seedSQLite(t,
		"CREATE TABLE a (x INTEGER)",
		"CREATE TABLE b (y INTEGER)",
		"INSERT INTO b VALUES (7)",
	)
	_, err := Load(path, DefaultOptions())
	if err == nil || !strings.Contains(err.Error(), "pick one with --db-table") {
		t.Fatalf("err = %v, want table pick error", err)
	}

	opt := DefaultOptions()
	opt.Table = "b"
	ds, err := Load(path, opt)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Subsource() != "b" || ds.Rows() != 1 {
		t.Fatalf("subsource = %q, rows = %d", ds.Subsource(), ds.Rows())
	}
}

func TestLoadSQLiteInvalidTableName(t *testing.T) {
	path := seedSQLite(t, "CREATE TABLE a (x INTEGER)")
	opt := DefaultOptions()
	opt.Table = "no such"
	_, err := Load(path, opt)
	if err == nil || !strings.Contains(err.Error(), "invalid table name") {
		t.Fatalf("err = %v, want invalid table name", err)
	}
}

func TestLoadSQLiteUnknownTable(t *testing.T) {
	path := seedSQLite(t, "CREATE TABLE a (x INTEGER)")
	opt := DefaultOptions()
	opt.Table = "missing"
	_, err := Load(path, opt)
	var ioe *IOError
	if !errors.As(err, &ioe) {
		t.Fatalf("err = %v, want IOError", err)
	}
}

func TestLoadSQLiteMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.db"), DefaultOptions())
	var ioe *IOError
	if !errors.As(err, &ioe) {
		t.Fatalf("err = %v, want IOError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err should unwrap to ErrNotExist, got %v", err)
	}
}

func TestLoadSQLiteMaxRows(t *testing.T) {
	path := seedSQLite(t,
		"CREATE TABLE n (v INTEGER)",
		"INSERT INTO n VALUES (1), (2), (3), (4), (5)",
	)
	opt := DefaultOptions()
	opt.MaxRows = 3
	ds, err := Load(path, opt)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Rows() != 3 || !ds.Truncated() {
		t.Fatalf("rows = %d, truncated = %v", ds.Rows(), ds.Truncated())
	}
}
