package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/copperwood-systems/datascout/internal/dataset"
	"github.com/copperwood-systems/datascout/internal/report"
	"github.com/copperwood-systems/datascout/internal/utils"
)

var (
	abLoad       loadFlags
	abFormat     string
	abOutDir     string
	abTarget     string
	abSampleRows int
	abFence      float64
	abCorrThr    float64
	abQuiet      bool
	abKeepGoing  bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple data files, writing one report per input",
	Long: `Analyze-batch expands globs, analyzes each matched file, and writes the
report next to it (or into --out-dir) as <name>.report.<ext>.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		sort.Strings(files)

		lopt, err := abLoad.options(cmd)
		if err != nil {
			return err
		}
		f := cmd.Flags()
		bopt := report.DefaultOptions()
		bopt.Target = abTarget
		bopt.SampleRows = pickInt(f.Changed("sample-rows"), abSampleRows, cfg.SampleRows, 5)
		bopt.Outlier.Fence = pickFloat(f.Changed("fence"), abFence, cfg.Fence, 1.5)
		bopt.Correlate.Threshold = pickFloat(f.Changed("corr-threshold"), abCorrThr, cfg.CorrThreshold, 0.8)
		format := abFormat
		if format == "" {
			format = cfg.Format
		}
		if format == "" || format == "text" {
			// text reports look wrong side by side; default batch output to markdown
			format = "markdown"
		}

		if abOutDir != "" {
			if err := utils.EnsureDir(abOutDir); err != nil {
				return fmt.Errorf("create out dir: %w", err)
			}
		}

		total := len(files)
		failed := 0
		for i, path := range files {
			if !abQuiet {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			if err := batchOne(path, lopt, bopt, format); err != nil {
				if !abKeepGoing {
					return fmt.Errorf("%s: %w", path, err)
				}
				failed++
				log.Warn("analysis failed", zap.String("path", path), zap.Error(err))
				if !abQuiet {
					fmt.Printf("⚠ Skipped %s: %v\n", filepath.Base(path), err)
				}
			}
		}
		if failed > 0 {
			fmt.Printf("✓ Done: %d analyzed, %d failed\n", total-failed, failed)
		} else if !abQuiet {
			fmt.Printf("✓ Done: %d analyzed\n", total)
		}
		return nil
	},
}

func batchOne(path string, lopt dataset.Options, bopt report.Options, format string) error {
	ds, err := dataset.Load(path, lopt)
	if err != nil {
		return err
	}
	rep, err := report.Build(ds, bopt)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	var encErr error
	ext := "md"
	switch format {
	case "json":
		encErr = report.EncodeJSON(&buf, rep)
		ext = "json"
	case "yaml", "yml":
		encErr = report.EncodeYAML(&buf, rep)
		ext = "yaml"
	case "markdown", "md":
		report.RenderMarkdown(&buf, rep)
	default:
		return fmt.Errorf("unsupported --format: %s (use markdown|json|yaml)", format)
	}
	if encErr != nil {
		return encErr
	}

	dir := abOutDir
	if dir == "" {
		dir = filepath.Dir(path)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(dir, base+".report."+ext)
	return utils.SafeWriteFile(out, buf.Bytes())
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	addLoadFlags(analyzeBatchCmd, &abLoad)
	analyzeBatchCmd.Flags().StringVarP(&abFormat, "format", "f", "", "report format: markdown|json|yaml (default markdown)")
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory for reports (default: next to each input)")
	analyzeBatchCmd.Flags().StringVarP(&abTarget, "target", "t", "", "numeric column to summarize per category")
	analyzeBatchCmd.Flags().IntVar(&abSampleRows, "sample-rows", 5, "number of sample rows to include")
	analyzeBatchCmd.Flags().Float64Var(&abFence, "fence", 1.5, "IQR multiplier for outlier fences")
	analyzeBatchCmd.Flags().Float64Var(&abCorrThr, "corr-threshold", 0.8, "|r| above which a column pair is flagged redundant")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	analyzeBatchCmd.Flags().BoolVar(&abKeepGoing, "keep-going", false, "continue past files that fail to load or analyze")
}
