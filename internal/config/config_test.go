package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Format != "text" {
		t.Fatalf("format = %q, want text", c.Format)
	}
	if c.NoColor {
		t.Fatal("no_color should default to false")
	}
	if c.MaxRows != 100000 || c.SampleRows != 5 || c.TopValues != 8 {
		t.Fatalf("defaults = %#v", c)
	}
	if c.Fence != 1.5 || c.CorrThreshold != 0.8 || c.MaxGroupKeys != 50 {
		t.Fatalf("analysis defaults = %#v", c)
	}
	if c.WatchDebounceMs != 500 {
		t.Fatalf("watch_debounce_ms = %d, want 500", c.WatchDebounceMs)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	want := &Global{
		Format:          "json",
		NoColor:         true,
		Delimiter:       ";",
		Decimal:         ",",
		Thousands:       ".",
		MaxRows:         500,
		SampleRows:      2,
		TopValues:       4,
		Fence:           3,
		CorrThreshold:   0.9,
		MaxGroupKeys:    10,
		LogFile:         "/tmp/scout.log",
		WatchDebounceMs: 250,
	}
	if err := Save(want, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *want {
		t.Fatalf("roundtrip = %#v, want %#v", got, want)
	}
}

func TestSaveExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scout.yaml")
	c := &Global{Format: "yaml", MaxRows: 7}
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Format != "yaml" || got.MaxRows != 7 {
		t.Fatalf("loaded = %#v", got)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DATASCOUT_FORMAT", "markdown")
	t.Setenv("DATASCOUT_MAX_ROWS", "123")
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Format != "markdown" {
		t.Fatalf("format = %q, want markdown", c.Format)
	}
	if c.MaxRows != 123 {
		t.Fatalf("max_rows = %d, want 123", c.MaxRows)
	}
}
