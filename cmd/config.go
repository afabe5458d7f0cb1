package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/copperwood-systems/datascout/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set DataScout configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("format: %s\n", cfg.Format)
		fmt.Printf("no_color: %v\n", cfg.NoColor)
		if cfg.Delimiter != "" {
			fmt.Printf("delimiter: %s\n", cfg.Delimiter)
		}
		if cfg.Decimal != "" {
			fmt.Printf("decimal: %s\n", cfg.Decimal)
		}
		if cfg.Thousands != "" {
			fmt.Printf("thousands: %s\n", cfg.Thousands)
		}
		fmt.Printf("max_rows: %d\n", cfg.MaxRows)
		fmt.Printf("sample_rows: %d\n", cfg.SampleRows)
		fmt.Printf("top_values: %d\n", cfg.TopValues)
		fmt.Printf("fence: %.3g\n", cfg.Fence)
		fmt.Printf("corr_threshold: %.3g\n", cfg.CorrThreshold)
		fmt.Printf("max_group_keys: %d\n", cfg.MaxGroupKeys)
		if cfg.LogFile != "" {
			fmt.Printf("log_file: %s\n", cfg.LogFile)
		}
		fmt.Printf("watch_debounce_ms: %d\n", cfg.WatchDebounceMs)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		switch key {
		case "format":
			switch val {
			case "text", "markdown", "json", "yaml":
				cfg.Format = val
			default:
				return fmt.Errorf("invalid format: %s (use text|markdown|json|yaml)", val)
			}
		case "no_color":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for no_color: %v", val)
			}
			cfg.NoColor = b
		case "delimiter":
			if _, err := parseDelimiter(val); err != nil {
				return err
			}
			cfg.Delimiter = val
		case "decimal":
			if _, err := parseDecimal(val); err != nil {
				return err
			}
			cfg.Decimal = val
		case "thousands":
			if _, err := parseThousands(val); err != nil {
				return err
			}
			cfg.Thousands = val
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			cfg.MaxRows = i
		case "sample_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for sample_rows: %v", val)
			}
			cfg.SampleRows = i
		case "top_values":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for top_values: %v", val)
			}
			cfg.TopValues = i
		case "fence":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid float for fence: %v", val)
			}
			cfg.Fence = f
		case "corr_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 || f > 1 {
				return fmt.Errorf("invalid corr_threshold: %v (use a value in (0,1])", val)
			}
			cfg.CorrThreshold = f
		case "max_group_keys":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for max_group_keys: %v", val)
			}
			cfg.MaxGroupKeys = i
		case "log_file":
			cfg.LogFile = val
		case "watch_debounce_ms":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for watch_debounce_ms: %v", val)
			}
			cfg.WatchDebounceMs = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to disk as a starting point",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
}
