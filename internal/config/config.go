package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Output defaults
	Format  string `mapstructure:"format" yaml:"format"`
	NoColor bool   `mapstructure:"no_color" yaml:"no_color"`

	// Parsing defaults
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	Decimal   string `mapstructure:"decimal" yaml:"decimal"`
	Thousands string `mapstructure:"thousands" yaml:"thousands"`
	MaxRows   int    `mapstructure:"max_rows" yaml:"max_rows"`

	// Report defaults
	SampleRows    int     `mapstructure:"sample_rows" yaml:"sample_rows"`
	TopValues     int     `mapstructure:"top_values" yaml:"top_values"`
	Fence         float64 `mapstructure:"fence" yaml:"fence"`
	CorrThreshold float64 `mapstructure:"corr_threshold" yaml:"corr_threshold"`
	MaxGroupKeys  int     `mapstructure:"max_group_keys" yaml:"max_group_keys"`

	// Logging
	LogFile string `mapstructure:"log_file" yaml:"log_file"`

	// Watch mode
	WatchDebounceMs int `mapstructure:"watch_debounce_ms" yaml:"watch_debounce_ms"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.datascout/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".datascout")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATASCOUT")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("format", "text")
	v.SetDefault("no_color", false)
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal", "")
	v.SetDefault("thousands", "")
	v.SetDefault("max_rows", 100000)
	v.SetDefault("sample_rows", 5)
	v.SetDefault("top_values", 8)
	v.SetDefault("fence", 1.5)
	v.SetDefault("corr_threshold", 0.8)
	v.SetDefault("max_group_keys", 50)
	v.SetDefault("log_file", "")
	v.SetDefault("watch_debounce_ms", 500)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".datascout")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
