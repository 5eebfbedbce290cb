package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-adoption/internal/chart"
	"github.com/naka-gawa/github-adoption/internal/output"
	"github.com/naka-gawa/github-adoption/internal/usecase"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Reports adoption over time and language distribution for a search query",
	Long: `Searches GitHub for repositories matching the query, then prints the
cumulative number of repositories per month (for all repositories and for a
set of languages), the language distribution and summary statistics.

Charts are written to --chart-dir unless it is empty.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := newSession(cmd)
		if err != nil {
			return err
		}

		fetcher, err := s.fetcher()
		if err != nil {
			return err
		}
		aggregator := usecase.NewAggregator(fetcher, s.cfg.Report.Languages, s.logger)

		report, err := aggregator.BuildReport(ctx, s.cfg.Search.Query)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}

		if err := s.printer.RenderReport(report, s.cfg.Output.Format); err != nil {
			return err
		}

		if s.cfg.Report.ChartDir == "" {
			return nil
		}
		renderer := chart.NewRenderer(s.cfg.Report.ChartDir, s.cfg.Report.ChartFormat, s.logger)
		paths, err := renderer.Render(ctx, report)
		if err != nil {
			return fmt.Errorf("failed to render charts: %w", err)
		}
		for _, p := range paths {
			if s.cfg.Output.Format == output.FormatJSON {
				s.logger.Info("chart written", "path", p)
				continue
			}
			s.printer.Success("Chart written to %s", p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	addSearchFlags(reportCmd)
	reportCmd.Flags().StringSlice("languages", usecase.DefaultFilterLanguages, "Languages kept by the filtered adoption series")
	reportCmd.Flags().String("chart-dir", "charts", "Directory for chart images (empty disables charts)")
	reportCmd.Flags().String("chart-format", "png", "Chart image format: png, svg, or pdf")
}
