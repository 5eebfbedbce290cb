package cmd

import (
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-adoption/internal/usecase"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Lists the repositories matching a search query",
	Long:  `Runs the paginated search and prints one row per repository: name, creation date, language and URL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		fetcher, err := s.fetcher()
		if err != nil {
			return err
		}

		rs, err := usecase.NewAggregator(fetcher, s.cfg.Report.Languages, s.logger).Fetch(cmd.Context(), s.cfg.Search.Query)
		if err != nil {
			return err
		}
		return s.printer.RenderRepositories(rs, s.cfg.Output.Format)
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	addSearchFlags(fetchCmd)
}
