package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/copperwood-systems/datascout/internal/report"
	"github.com/copperwood-systems/datascout/internal/watcher"
)

var (
	wchLoad       loadFlags
	wchFormat     string
	wchOutDir     string
	wchTarget     string
	wchDebounceMs int
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and re-analyze data files as they change",
	Long: `Watch analyzes every CSV, TSV, or XLSX file created or modified under the
directory and writes <name>.report.<ext> next to it (or into --out-dir).
Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lopt, err := wchLoad.options(cmd)
		if err != nil {
			return err
		}
		bopt := report.DefaultOptions()
		bopt.Target = wchTarget
		bopt.SampleRows = pickInt(false, 0, cfg.SampleRows, 5)
		bopt.Outlier.Fence = pickFloat(false, 0, cfg.Fence, 1.5)
		bopt.Correlate.Threshold = pickFloat(false, 0, cfg.CorrThreshold, 0.8)

		format := wchFormat
		if format == "" {
			format = cfg.Format
		}
		if format == "" || format == "text" {
			format = "markdown"
		}
		debounce := pickInt(cmd.Flags().Changed("debounce-ms"), wchDebounceMs, cfg.WatchDebounceMs, 500)

		w, err := watcher.New(watcher.Config{
			Dir:      args[0],
			OutDir:   wchOutDir,
			Format:   format,
			Load:     lopt,
			Build:    bopt,
			Debounce: time.Duration(debounce) * time.Millisecond,
			Logger:   log,
		})
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		fmt.Printf("Watching %s for data file changes. Press Ctrl+C to stop.\n", args[0])

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, shutting down...\n", sig)

		if err := w.Stop(); err != nil {
			return fmt.Errorf("stop watcher: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addLoadFlags(watchCmd, &wchLoad)
	watchCmd.Flags().StringVarP(&wchFormat, "format", "f", "", "report format: markdown|json|yaml (default markdown)")
	watchCmd.Flags().StringVar(&wchOutDir, "out-dir", "", "directory for reports (default: next to each input)")
	watchCmd.Flags().StringVarP(&wchTarget, "target", "t", "", "numeric column to summarize per category")
	watchCmd.Flags().IntVar(&wchDebounceMs, "debounce-ms", 500, "quiet window before re-analyzing a changed file")
}
