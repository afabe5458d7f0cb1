package report

import (
	"github.com/copperwood-systems/datascout/internal/correlate"
	"github.com/copperwood-systems/datascout/internal/dataset"
	"github.com/copperwood-systems/datascout/internal/outlier"
	"github.com/copperwood-systems/datascout/internal/profile"
)

// Options controls which sections Build computes.
type Options struct {
	Profile   profile.Options
	Outlier   outlier.Options
	Correlate correlate.Options
	// Target, when set, adds per-category summaries of this numeric column.
	Target string
	// SampleRows is how many leading rows to include verbatim.
	SampleRows int
	// WithOutliers and WithCorrelations toggle those sections.
	WithOutliers     bool
	WithCorrelations bool
}

// DefaultOptions enables every section with standard thresholds.
func DefaultOptions() Options {
	return Options{
		Profile:          profile.DefaultOptions(),
		Outlier:          outlier.DefaultOptions(),
		Correlate:        correlate.DefaultOptions(),
		SampleRows:       5,
		WithOutliers:     true,
		WithCorrelations: true,
	}
}

// Build runs the requested analysis passes over a loaded dataset and
// assembles their results.
func Build(ds *dataset.Dataset, opt Options) (*Report, error) {
	parts := Parts{
		Source:   Source{Name: ds.Source(), Format: ds.Format()},
		Rows:     ds.Rows(),
		Profiles: profile.Columns(ds, opt.Profile),
		Warnings: append([]string(nil), ds.Warnings()...),
	}
	switch ds.Format() {
	case "xlsx":
		parts.Source.Sheet = ds.Subsource()
	case "sqlite":
		parts.Source.Table = ds.Subsource()
	}

	if opt.WithOutliers {
		parts.Outliers = outlier.Columns(ds, opt.Outlier)
	}
	if opt.WithCorrelations {
		parts.Correlation = correlate.Numeric(ds)
		parts.Redundant = correlate.Redundant(parts.Correlation, opt.Correlate.Threshold)
	}
	if opt.Target != "" {
		groups, warns, err := correlate.GroupMeans(ds, opt.Target, opt.Correlate)
		if err != nil {
			return nil, err
		}
		parts.Groups = groups
		parts.Warnings = append(parts.Warnings, warns...)
	}
	if opt.SampleRows > 0 {
		n := opt.SampleRows
		if n > ds.Rows() {
			n = ds.Rows()
		}
		for i := 0; i < n; i++ {
			parts.Samples = append(parts.Samples, ds.Row(i))
		}
	}
	return Assemble(parts), nil
}
