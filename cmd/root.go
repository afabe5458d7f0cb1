package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/copperwood-systems/datascout/internal/config"
	"github.com/copperwood-systems/datascout/internal/logging"
)

var (
	// Global flags (wired later to config/viper)
	cfgFile string
	debug   bool
	noColor bool
	logFile string

	// Loaded configuration; replaced by loadConfig, never nil
	cfg = &cfgpkg.Global{}

	// Process logger; a no-op until loadConfig runs
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "datascout",
	Short: "DataScout CLI: profile tabular data and report what's in it",
	Long: `DataScout reads tabular data from CSV, TSV, Excel, or SQLite sources and
produces a descriptive report: per-column statistics, outliers, correlations,
and group summaries, as text, markdown, JSON, or YAML.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	err := rootCmd.Execute()
	_ = log.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.datascout/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable ANSI colors (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also log to this file, rotated daily (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("no-color") {
		cfg.NoColor = noColor
	}
	if f.Changed("log-file") {
		cfg.LogFile = logFile
	}

	l, err := logging.New(debug, cfg.NoColor, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to init logging: %v\n", err)
		return
	}
	log = l
}
