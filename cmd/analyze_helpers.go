package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/copperwood-systems/datascout/internal/dataset"
	"github.com/copperwood-systems/datascout/internal/report"
)

// loadFlags are the source-reading flags shared by the analysis commands.
type loadFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	maxRows    int
	where      string
	sheetName  string
	sheetIndex int
	table      string
}

func addLoadFlags(cmd *cobra.Command, lf *loadFlags) {
	cmd.Flags().StringVar(&lf.delimiter, "delimiter", "", "CSV delimiter: ','|';'|'tab'|'|'")
	cmd.Flags().StringVar(&lf.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	cmd.Flags().StringVar(&lf.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	cmd.Flags().IntVar(&lf.maxRows, "max-rows", 100000, "maximum rows to load (0 = unlimited)")
	cmd.Flags().StringVar(&lf.where, "where", "", `row filter over column names, e.g. 'price > 100 && region == "EU"'`)
	cmd.Flags().StringVar(&lf.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	cmd.Flags().IntVar(&lf.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	cmd.Flags().StringVar(&lf.table, "db-table", "", "SQLite: table to analyze (required when the database has several)")
}

// options merges config defaults with whatever flags the user set. Explicit
// flags win over the config file, which wins over built-in defaults.
func (lf *loadFlags) options(cmd *cobra.Command) (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	f := cmd.Flags()

	if f.Changed("max-rows") {
		opt.MaxRows = lf.maxRows
	} else if cfg.MaxRows > 0 {
		opt.MaxRows = cfg.MaxRows
	}

	delim := lf.delimiter
	if !f.Changed("delimiter") && cfg.Delimiter != "" {
		delim = cfg.Delimiter
	}
	d, err := parseDelimiter(delim)
	if err != nil {
		return opt, err
	}
	opt.Delimiter = d

	decimal := lf.decimal
	if !f.Changed("decimal") && cfg.Decimal != "" {
		decimal = cfg.Decimal
	}
	dec, err := parseDecimal(decimal)
	if err != nil {
		return opt, err
	}
	opt.DecimalSeparator = dec

	thousands := lf.thousands
	if !f.Changed("thousands") && cfg.Thousands != "" {
		thousands = cfg.Thousands
	}
	thou, err := parseThousands(thousands)
	if err != nil {
		return opt, err
	}
	opt.ThousandsSeparator = thou

	opt.Where = lf.where
	opt.SheetName = lf.sheetName
	if lf.sheetIndex > 0 {
		opt.SheetIndex = lf.sheetIndex
	}
	opt.Table = lf.table
	return opt, nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
}

func parseDecimal(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ".", "dot":
		return '.', nil
	default:
		return 0, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", s)
	}
}

func parseThousands(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case ".":
		return '.', nil
	case "space", " ":
		return ' ', nil
	default:
		return 0, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", s)
	}
}

// outFlags are the report output flags shared by the analysis commands.
type outFlags struct {
	format string
	output string
}

func addOutFlags(cmd *cobra.Command, of *outFlags) {
	cmd.Flags().StringVarP(&of.format, "format", "f", "", "report format: text|markdown|json|yaml (default from config, else text)")
	cmd.Flags().StringVarP(&of.output, "output", "o", "", "optional path to write the report")
}

func (of *outFlags) resolveFormat() string {
	if of.format != "" {
		return of.format
	}
	if cfg.Format != "" {
		return cfg.Format
	}
	return "text"
}

// write renders the report in the chosen format to --output or stdout.
func (of *outFlags) write(rep *report.Report) error {
	var buf bytes.Buffer
	switch of.resolveFormat() {
	case "text":
		color := of.output == "" && !cfg.NoColor && report.IsColorEnabled()
		report.Render(&buf, rep, color)
	case "markdown", "md":
		report.RenderMarkdown(&buf, rep)
	case "json":
		if err := report.EncodeJSON(&buf, rep); err != nil {
			return err
		}
	case "yaml", "yml":
		if err := report.EncodeYAML(&buf, rep); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported --format: %s (use text|markdown|json|yaml)", of.resolveFormat())
	}
	if of.output != "" {
		if err := os.WriteFile(of.output, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("✓ Wrote report to %s\n", of.output)
		return nil
	}
	fmt.Print(buf.String())
	return nil
}

// pickInt resolves a knob: the flag when set, else a positive config value,
// else the built-in default.
func pickInt(changed bool, flag, conf, def int) int {
	if changed {
		return flag
	}
	if conf > 0 {
		return conf
	}
	return def
}

func pickFloat(changed bool, flag, conf, def float64) float64 {
	if changed {
		return flag
	}
	if conf > 0 {
		return conf
	}
	return def
}

// sourceParts describes the loaded dataset for a report header.
func sourceParts(ds *dataset.Dataset) report.Source {
	src := report.Source{Name: ds.Source(), Format: ds.Format()}
	switch ds.Format() {
	case "xlsx":
		src.Sheet = ds.Subsource()
	case "sqlite":
		src.Table = ds.Subsource()
	}
	return src
}
