// Package correlate measures relationships between columns: a pairwise
// Pearson matrix over numeric columns, near-duplicate column detection, and
// per-category summaries of a numeric target.
package correlate

import (
	"fmt"
	"math"
	"sort"

	"github.com/copperwood-systems/datascout/internal/dataset"
)

// Options controls relationship analysis.
type Options struct {
	// Threshold on |r| above which a column pair is reported as redundant;
	// 0 means 0.8.
	Threshold float64
	// MaxGroupKeys skips categorical columns with more distinct values when
	// computing group summaries; 0 means 50.
	MaxGroupKeys int
}

// DefaultOptions returns reasonable defaults for relationship analysis.
func DefaultOptions() Options {
	return Options{Threshold: 0.8, MaxGroupKeys: 50}
}

// Matrix holds a symmetric Pearson correlation matrix across numeric columns.
// The diagonal is exactly 1.
type Matrix struct {
	Columns []string    `json:"columns" yaml:"columns"`
	Values  [][]float64 `json:"values" yaml:"values"`
}

// Pair is one column pair with its correlation.
type Pair struct {
	A string  `json:"a" yaml:"a"`
	B string  `json:"b" yaml:"b"`
	R float64 `json:"r" yaml:"r"`
}

// Numeric builds the correlation matrix over the dataset's numeric columns,
// using only rows where both values of a pair are present. Returns nil when
// fewer than two numeric columns exist.
func Numeric(ds *dataset.Dataset) *Matrix {
	var cols []dataset.Column
	for _, c := range ds.Cols() {
		if c.Kind == dataset.KindNumeric {
			cols = append(cols, c)
		}
	}
	if len(cols) < 2 {
		return nil
	}
	n := len(cols)
	m := &Matrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for i := range cols {
		m.Columns[i] = cols[i].Name
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			r := pearson(cols[a], cols[b])
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m
}

// pearson computes the correlation over rows where both columns are present.
// Degenerate pairs (fewer than two shared rows, or zero variance) yield 0.
func pearson(x, y dataset.Column) float64 {
	var n, sumX, sumY, sumXX, sumYY, sumXY float64
	for i := range x.Floats {
		if x.Missing[i] || y.Missing[i] {
			continue
		}
		a, b := x.Floats[i], y.Floats[i]
		n++
		sumX += a
		sumY += b
		sumXX += a * a
		sumYY += b * b
		sumXY += a * b
	}
	if n < 2 {
		return 0
	}
	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom == 0 {
		return 0
	}
	r := (n*sumXY - sumX*sumY) / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// Redundant lists column pairs whose |r| strictly exceeds the threshold,
// strongest first; equal strengths order by concatenated names.
func Redundant(m *Matrix, threshold float64) []Pair {
	if m == nil {
		return nil
	}
	if threshold <= 0 {
		threshold = 0.8
	}
	var pairs []Pair
	for i := 0; i < len(m.Columns); i++ {
		for j := i + 1; j < len(m.Columns); j++ {
			if r := m.Values[i][j]; math.Abs(r) > threshold {
				pairs = append(pairs, Pair{A: m.Columns[i], B: m.Columns[j], R: r})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	return pairs
}

// GroupStat summarizes the target over the rows sharing one category value.
type GroupStat struct {
	Value string  `json:"value" yaml:"value"`
	Count int     `json:"count" yaml:"count"`
	Mean  float64 `json:"mean" yaml:"mean"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
}

// GroupResult holds the per-category target summaries for one grouping
// column, highest mean first; equal means order by category value.
type GroupResult struct {
	Column string      `json:"column" yaml:"column"`
	Target string      `json:"target" yaml:"target"`
	Groups []GroupStat `json:"groups" yaml:"groups"`
}

// GroupMeans summarizes the numeric target column grouped by each categorical
// column. Columns with more than MaxGroupKeys distinct values are skipped
// with a warning.
func GroupMeans(ds *dataset.Dataset, target string, opt Options) ([]GroupResult, []string, error) {
	maxKeys := opt.MaxGroupKeys
	if maxKeys <= 0 {
		maxKeys = 50
	}
	tcol, ok := ds.Col(target)
	if !ok {
		return nil, nil, fmt.Errorf("unknown target column %q", target)
	}
	if tcol.Kind != dataset.KindNumeric {
		return nil, nil, fmt.Errorf("target column %q is %s, need numeric", tcol.Name, tcol.Kind)
	}

	var out []GroupResult
	var warnings []string
	for _, gcol := range ds.Cols() {
		if gcol.Kind != dataset.KindCategorical {
			continue
		}
		type gAcc struct {
			count    int
			sum      float64
			min, max float64
		}
		accs := map[string]*gAcc{}
		for i, v := range gcol.Raw {
			if gcol.Missing[i] || tcol.Missing[i] {
				continue
			}
			x := tcol.Floats[i]
			a := accs[v]
			if a == nil {
				a = &gAcc{min: x, max: x}
				accs[v] = a
			}
			a.count++
			a.sum += x
			if x < a.min {
				a.min = x
			}
			if x > a.max {
				a.max = x
			}
		}
		if len(accs) == 0 {
			continue
		}
		if len(accs) > maxKeys {
			warnings = append(warnings, fmt.Sprintf("column %s has %d distinct values, skipping group summary (max %d)", gcol.Name, len(accs), maxKeys))
			continue
		}
		gr := GroupResult{Column: gcol.Name, Target: tcol.Name, Groups: make([]GroupStat, 0, len(accs))}
		for v, a := range accs {
			gr.Groups = append(gr.Groups, GroupStat{
				Value: v,
				Count: a.count,
				Mean:  a.sum / float64(a.count),
				Min:   a.min,
				Max:   a.max,
			})
		}
		sort.Slice(gr.Groups, func(i, j int) bool {
			if gr.Groups[i].Mean == gr.Groups[j].Mean {
				return gr.Groups[i].Value < gr.Groups[j].Value
			}
			return gr.Groups[i].Mean > gr.Groups[j].Mean
		})
		out = append(out, gr)
	}
	return out, warnings, nil
}
