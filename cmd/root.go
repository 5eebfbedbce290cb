// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/naka-gawa/github-adoption/internal/config"
	"github.com/naka-gawa/github-adoption/internal/gateway"
	"github.com/naka-gawa/github-adoption/internal/output"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "github-adoption",
	Short: "A CLI tool to measure how many GitHub repositories adopt a project.",
	Long: `github-adoption searches GitHub for repositories matching a query
(by default, repositories mentioning manubot in their README) and reports
how adoption grew over time and which languages those repositories use.

Charts are written as image files; tables and summaries go to standard output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .github-adoption.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("color", "auto", "Color output: auto, always, or never")
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"query":        "search.query",
	"per-page":     "search.per_page",
	"max-results":  "search.max_results",
	"delay":        "search.delay",
	"backend":      "github.backend",
	"base-url":     "github.base_url",
	"languages":    "report.languages",
	"chart-dir":    "report.chart_dir",
	"chart-format": "report.chart_format",
	"output":       "output.format",
	"color":        "output.color",
}

// addSearchFlags registers the flags shared by every command that talks to GitHub.
func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("query", "q", "manubot in:readme", "GitHub repository search query")
	cmd.Flags().Int("per-page", gateway.MaxPerPage, "Results per page (at most 100)")
	cmd.Flags().Int("max-results", gateway.DefaultMaxResults, "Stop after this many results (the API returns at most 1000)")
	cmd.Flags().Duration("delay", gateway.DefaultDelay, "Pause between page requests")
	cmd.Flags().String("backend", string(gateway.BackendREST), "GitHub API used for the search: rest or graphql")
	cmd.Flags().String("base-url", "", "GitHub API base URL (for GitHub Enterprise)")
	cmd.Flags().StringP("output", "o", output.FormatTable, "Output format: table or json")
}

// session bundles what a command needs once configuration has been resolved.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	printer *output.Printer
}

// newSession resolves configuration for cmd: flags set on the command line win
// over the environment, which wins over the config file.
func newSession(cmd *cobra.Command) (*session, error) {
	v := viper.New()
	var bindErr error
	bind := func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, f)
		}
	}
	cmd.Flags().VisitAll(bind)
	cmd.InheritedFlags().VisitAll(bind)
	if bindErr != nil {
		return nil, fmt.Errorf("binding flags: %w", bindErr)
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := slog.LevelInfo
	switch {
	case verbose || cfg.Logging.Level == "debug":
		level = slog.LevelDebug
	case cfg.Logging.Level == "warn":
		level = slog.LevelWarn
	case cfg.Logging.Level == "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	mode, err := output.ParseColorMode(cfg.Output.Color)
	if err != nil {
		return nil, err
	}
	printer := output.NewPrinterWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ResolveColors(mode))

	logger.Debug("configuration loaded",
		"config_file", v.ConfigFileUsed(),
		"query", cfg.Search.Query,
		"backend", cfg.GitHub.Backend,
		"per_page", cfg.Search.PerPage,
		"max_results", cfg.Search.MaxResults,
		"delay", cfg.Search.Delay,
		"authenticated", cfg.GitHub.Token != "",
	)
	return &session{cfg: cfg, logger: logger, printer: printer}, nil
}

// fetcher builds the GitHub gateway described by the session's configuration.
func (s *session) fetcher() (gateway.Fetcher, error) {
	backend, err := gateway.ParseBackend(s.cfg.GitHub.Backend)
	if err != nil {
		return nil, err
	}
	f, err := gateway.NewGitHubGateway(gateway.Options{
		Token:      s.cfg.GitHub.Token,
		BaseURL:    s.cfg.GitHub.BaseURL,
		Backend:    backend,
		PerPage:    s.cfg.Search.PerPage,
		MaxResults: s.cfg.Search.MaxResults,
		Delay:      s.cfg.Search.Delay,
	}, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	return f, nil
}
