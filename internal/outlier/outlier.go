// Package outlier flags numeric values that fall outside Tukey fences built
// from the interquartile range of each column.
package outlier

import (
	"sort"

	mapset "github.com/deckarep/golang-set"

	"github.com/copperwood-systems/datascout/internal/dataset"
	"github.com/copperwood-systems/datascout/internal/stats"
)

// Options controls fence placement.
type Options struct {
	// Fence is the IQR multiplier; 0 means the Tukey default of 1.5.
	Fence float64
}

// DefaultOptions returns the standard 1.5 IQR fence.
func DefaultOptions() Options {
	return Options{Fence: 1.5}
}

// ColumnOutliers reports fence bounds and flagged rows for one numeric
// column. Rows holds zero-based dataset row indices in ascending order.
type ColumnOutliers struct {
	Column string  `json:"column" yaml:"column"`
	Q1     float64 `json:"q1" yaml:"q1"`
	Q3     float64 `json:"q3" yaml:"q3"`
	IQR    float64 `json:"iqr" yaml:"iqr"`
	Lower  float64 `json:"lower" yaml:"lower"`
	Upper  float64 `json:"upper" yaml:"upper"`
	Rows   []int   `json:"rows,omitempty" yaml:"rows,omitempty"`
	Count  int     `json:"count" yaml:"count"`
	Ratio  float64 `json:"ratio" yaml:"ratio"`
}

// Columns scans every numeric column of the dataset in column order.
func Columns(ds *dataset.Dataset, opt Options) []ColumnOutliers {
	var out []ColumnOutliers
	for _, c := range ds.Cols() {
		if co, ok := Column(c, opt); ok {
			out = append(out, co)
		}
	}
	return out
}

// Column computes quartiles over the column's non-missing values and flags
// values strictly outside [Q1 - f*IQR, Q3 + f*IQR]. The second return is
// false for non-numeric or all-missing columns.
func Column(c dataset.Column, opt Options) (ColumnOutliers, bool) {
	if c.Kind != dataset.KindNumeric {
		return ColumnOutliers{}, false
	}
	vals, idx := c.Values()
	if len(vals) == 0 {
		return ColumnOutliers{}, false
	}
	fence := opt.Fence
	if fence <= 0 {
		fence = 1.5
	}

	sorted := stats.Sorted(vals)
	co := ColumnOutliers{
		Column: c.Name,
		Q1:     stats.Quantile(sorted, 0.25),
		Q3:     stats.Quantile(sorted, 0.75),
	}
	co.IQR = co.Q3 - co.Q1
	co.Lower = co.Q1 - fence*co.IQR
	co.Upper = co.Q3 + fence*co.IQR

	flagged := mapset.NewSet()
	for i, v := range vals {
		if v < co.Lower || v > co.Upper {
			flagged.Add(idx[i])
		}
	}
	for _, v := range flagged.ToSlice() {
		co.Rows = append(co.Rows, v.(int))
	}
	sort.Ints(co.Rows)
	co.Count = len(co.Rows)
	co.Ratio = float64(co.Count) / float64(len(vals))
	return co, true
}
