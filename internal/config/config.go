// Package config provides Viper-based configuration management for github-adoption.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete github-adoption configuration
type Config struct {
	GitHub  GitHubConfig  `mapstructure:"github"`
	Search  SearchConfig  `mapstructure:"search"`
	Report  ReportConfig  `mapstructure:"report"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GitHubConfig contains API access settings
type GitHubConfig struct {
	Token   string `mapstructure:"token"`
	BaseURL string `mapstructure:"base_url"`
	Backend string `mapstructure:"backend"`
}

// SearchConfig controls the paginated search
type SearchConfig struct {
	Query      string        `mapstructure:"query"`
	PerPage    int           `mapstructure:"per_page"`
	MaxResults int           `mapstructure:"max_results"`
	Delay      time.Duration `mapstructure:"delay"`
}

// ReportConfig controls aggregation and charts
type ReportConfig struct {
	Languages   []string `mapstructure:"languages"`
	ChartDir    string   `mapstructure:"chart_dir"`
	ChartFormat string   `mapstructure:"chart_format"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  string `mapstructure:"color"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from file, environment variables and the flags bound to v.
// A nil v gets a fresh instance.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".github-adoption")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/github-adoption")
	}

	v.SetEnvPrefix("GITHUB_ADOPTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The token keeps the name every GitHub tool reads.
	_ = v.BindEnv("github.token", "GITHUB_ADOPTION_GITHUB_TOKEN", "GITHUB_TOKEN")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github.token", "")
	v.SetDefault("github.base_url", "")
	v.SetDefault("github.backend", "rest")

	v.SetDefault("search.query", "manubot in:readme")
	v.SetDefault("search.per_page", 100)
	v.SetDefault("search.max_results", 1000)
	v.SetDefault("search.delay", time.Second)

	v.SetDefault("report.languages", []string{"TeX", "HTML"})
	v.SetDefault("report.chart_dir", "charts")
	v.SetDefault("report.chart_format", "png")

	v.SetDefault("output.format", "table")
	v.SetDefault("output.color", "auto")

	v.SetDefault("logging.level", "info")
}

// Validate checks the configuration for errors
func Validate(cfg *Config) error {
	if cfg.Search.Query == "" {
		return fmt.Errorf("search query must not be empty")
	}
	if cfg.Search.PerPage < 1 || cfg.Search.PerPage > 100 {
		return fmt.Errorf("invalid per_page: %d (must be between 1 and 100)", cfg.Search.PerPage)
	}
	if cfg.Search.MaxResults < 1 {
		return fmt.Errorf("invalid max_results: %d (must be positive)", cfg.Search.MaxResults)
	}
	if cfg.Search.Delay < 0 {
		return fmt.Errorf("invalid delay: %s (must not be negative)", cfg.Search.Delay)
	}

	if !slices.Contains([]string{"rest", "graphql"}, cfg.GitHub.Backend) {
		return fmt.Errorf("invalid backend: %s (must be rest or graphql)", cfg.GitHub.Backend)
	}
	if !slices.Contains([]string{"png", "svg", "pdf"}, cfg.Report.ChartFormat) {
		return fmt.Errorf("invalid chart format: %s (must be png, svg, or pdf)", cfg.Report.ChartFormat)
	}
	if !slices.Contains([]string{"table", "json"}, cfg.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be table or json)", cfg.Output.Format)
	}
	if !slices.Contains([]string{"auto", "always", "never"}, cfg.Output.Color) {
		return fmt.Errorf("invalid color mode: %s (must be auto, always, or never)", cfg.Output.Color)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, cfg.Logging.Level) {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}
	return nil
}
