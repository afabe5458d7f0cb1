// Package profile computes per-column descriptive statistics over a loaded
// dataset: moments and quantiles for numeric columns, frequency tables for
// categorical ones, examples for free text, and ranges for datetimes.
package profile

import (
	"math"
	"sort"
	"time"

	"github.com/copperwood-systems/datascout/internal/dataset"
	"github.com/copperwood-systems/datascout/internal/stats"
)

// Options controls profiling behavior.
type Options struct {
	// TopValues caps how many category counts to keep per categorical column.
	TopValues int
	// Examples caps free-text example values per text column.
	Examples int
}

// DefaultOptions returns reasonable defaults for column profiling.
func DefaultOptions() Options {
	return Options{TopValues: 8, Examples: 3}
}

// ColumnProfile captures inferred type and statistics for one column.
type ColumnProfile struct {
	Name         string  `json:"name" yaml:"name"`
	Kind         string  `json:"kind" yaml:"kind"`
	Unit         string  `json:"unit,omitempty" yaml:"unit,omitempty"`
	Count        int     `json:"count" yaml:"count"`
	Missing      int     `json:"missing" yaml:"missing"`
	MissingRatio float64 `json:"missing_ratio" yaml:"missing_ratio"`
	Mismatched   int     `json:"mismatched,omitempty" yaml:"mismatched,omitempty"`

	Numeric      *NumericStats   `json:"numeric,omitempty" yaml:"numeric,omitempty"`
	Unique       int             `json:"unique,omitempty" yaml:"unique,omitempty"`
	TopValues    []CategoryCount `json:"top_values,omitempty" yaml:"top_values,omitempty"`
	ExampleTexts []string        `json:"examples,omitempty" yaml:"examples,omitempty"`
	TimeRange    *TimeRange      `json:"time_range,omitempty" yaml:"time_range,omitempty"`
}

// NumericStats holds moments and quantiles of the non-missing values.
// Median always equals the 0.5 quantile; both come from the same
// interpolation over the same sorted copy.
type NumericStats struct {
	Min      float64 `json:"min" yaml:"min"`
	Max      float64 `json:"max" yaml:"max"`
	Mean     float64 `json:"mean" yaml:"mean"`
	Std      float64 `json:"std" yaml:"std"`
	Q1       float64 `json:"q1" yaml:"q1"`
	Median   float64 `json:"median" yaml:"median"`
	Q3       float64 `json:"q3" yaml:"q3"`
	Skew     float64 `json:"skew" yaml:"skew"`
	Kurtosis float64 `json:"kurtosis" yaml:"kurtosis"`
}

// CategoryCount is one categorical value with its frequency.
type CategoryCount struct {
	Value string  `json:"value" yaml:"value"`
	Count int     `json:"count" yaml:"count"`
	Ratio float64 `json:"ratio" yaml:"ratio"`
}

// TimeRange spans the non-missing values of a datetime column.
type TimeRange struct {
	Earliest time.Time `json:"earliest" yaml:"earliest"`
	Latest   time.Time `json:"latest" yaml:"latest"`
}

// Columns profiles every column of the dataset in column order.
func Columns(ds *dataset.Dataset, opt Options) []ColumnProfile {
	cols := ds.Cols()
	out := make([]ColumnProfile, 0, len(cols))
	for _, c := range cols {
		out = append(out, Column(c, ds.Rows(), opt))
	}
	return out
}

// Column profiles a single column. rows is the dataset row count, used for
// the missing ratio.
func Column(c dataset.Column, rows int, opt Options) ColumnProfile {
	if opt.TopValues <= 0 {
		opt.TopValues = 8
	}
	if opt.Examples <= 0 {
		opt.Examples = 3
	}
	p := ColumnProfile{
		Name:       c.Name,
		Kind:       string(c.Kind),
		Unit:       c.Unit,
		Count:      c.NonMissing(),
		Missing:    rows - c.NonMissing(),
		Mismatched: c.Mismatched,
	}
	if rows > 0 {
		p.MissingRatio = float64(p.Missing) / float64(rows)
	}

	switch c.Kind {
	case dataset.KindNumeric:
		p.Numeric = describeNumeric(c)
	case dataset.KindCategorical:
		p.Unique, p.TopValues = topValues(c, opt.TopValues)
	case dataset.KindText:
		p.ExampleTexts = exampleTexts(c, opt.Examples)
	case dataset.KindDatetime:
		p.TimeRange = timeRange(c)
	}
	return p
}

func describeNumeric(c dataset.Column) *NumericStats {
	vals, _ := c.Values()
	n := len(vals)
	if n == 0 {
		return nil
	}
	sorted := stats.Sorted(vals)
	ns := &NumericStats{
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   stats.Mean(vals),
		Q1:     stats.Quantile(sorted, 0.25),
		Median: stats.Quantile(sorted, 0.5),
		Q3:     stats.Quantile(sorted, 0.75),
	}
	var m2, m3, m4 float64
	for _, v := range vals {
		d := v - ns.Mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	if n > 1 {
		ns.Std = math.Sqrt(m2 / float64(n-1))
	}
	if n > 1 && m2 > 0 {
		// Population moments for shape; kurtosis is excess (normal = 0).
		v := m2 / float64(n)
		ns.Skew = stats.FiniteOr0((m3 / float64(n)) / math.Pow(v, 1.5))
		ns.Kurtosis = stats.FiniteOr0((m4/float64(n))/(v*v) - 3)
	}
	return ns
}

// topValues tallies category frequencies. Ties in count keep the value that
// appeared first in the data ahead.
func topValues(c dataset.Column, limit int) (int, []CategoryCount) {
	type catAcc struct {
		count int
		first int
	}
	counts := map[string]*catAcc{}
	nonMissing := 0
	for i, v := range c.Raw {
		if c.Missing[i] {
			continue
		}
		nonMissing++
		a := counts[v]
		if a == nil {
			a = &catAcc{first: i}
			counts[v] = a
		}
		a.count++
	}
	tops := make([]CategoryCount, 0, len(counts))
	firsts := make(map[string]int, len(counts))
	for v, a := range counts {
		tops = append(tops, CategoryCount{Value: v, Count: a.count})
		firsts[v] = a.first
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return firsts[tops[i].Value] < firsts[tops[j].Value]
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > limit {
		tops = tops[:limit]
	}
	if nonMissing > 0 {
		for i := range tops {
			tops[i].Ratio = float64(tops[i].Count) / float64(nonMissing)
		}
	}
	return len(counts), tops
}

func exampleTexts(c dataset.Column, limit int) []string {
	var out []string
	for i, v := range c.Raw {
		if c.Missing[i] {
			continue
		}
		out = append(out, v)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func timeRange(c dataset.Column) *TimeRange {
	var tr *TimeRange
	for i, t := range c.Times {
		if c.Missing[i] {
			continue
		}
		if tr == nil {
			tr = &TimeRange{Earliest: t, Latest: t}
			continue
		}
		if t.Before(tr.Earliest) {
			tr.Earliest = t
		}
		if t.After(tr.Latest) {
			tr.Latest = t
		}
	}
	return tr
}
