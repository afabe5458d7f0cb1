// Package report assembles profiling, outlier, and relationship results into
// one serializable report and renders it as text, markdown, JSON, or YAML.
package report

import (
	"github.com/copperwood-systems/datascout/internal/correlate"
	"github.com/copperwood-systems/datascout/internal/outlier"
	"github.com/copperwood-systems/datascout/internal/profile"
)

// Source identifies where the dataset came from.
type Source struct {
	Name   string `json:"name" yaml:"name"`
	Format string `json:"format" yaml:"format"`
	Sheet  string `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	Table  string `json:"table,omitempty" yaml:"table,omitempty"`
}

// Report is the full analysis of one dataset. Every field is a plain value
// or slice, so encoding the same report twice yields identical bytes.
type Report struct {
	Source      Source                   `json:"source" yaml:"source"`
	Rows        int                      `json:"rows" yaml:"rows"`
	Columns     int                      `json:"columns" yaml:"columns"`
	Profiles    []profile.ColumnProfile  `json:"profiles" yaml:"profiles"`
	Outliers    []outlier.ColumnOutliers `json:"outliers,omitempty" yaml:"outliers,omitempty"`
	Correlation *correlate.Matrix        `json:"correlation,omitempty" yaml:"correlation,omitempty"`
	Redundant   []correlate.Pair         `json:"redundant,omitempty" yaml:"redundant,omitempty"`
	Groups      []correlate.GroupResult  `json:"groups,omitempty" yaml:"groups,omitempty"`
	Samples     [][]string               `json:"samples,omitempty" yaml:"samples,omitempty"`
	Warnings    []string                 `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Parts are the precomputed sections of a report.
type Parts struct {
	Source      Source
	Rows        int
	Profiles    []profile.ColumnProfile
	Outliers    []outlier.ColumnOutliers
	Correlation *correlate.Matrix
	Redundant   []correlate.Pair
	Groups      []correlate.GroupResult
	Samples     [][]string
	Warnings    []string
}

// Assemble composes precomputed section results into a report. It computes
// nothing itself, so equal parts always assemble to an equal report.
func Assemble(p Parts) *Report {
	return &Report{
		Source:      p.Source,
		Rows:        p.Rows,
		Columns:     len(p.Profiles),
		Profiles:    p.Profiles,
		Outliers:    p.Outliers,
		Correlation: p.Correlation,
		Redundant:   p.Redundant,
		Groups:      p.Groups,
		Samples:     p.Samples,
		Warnings:    p.Warnings,
	}
}
