// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/naka-gawa/github-adoption/internal/domain"
	"github.com/naka-gawa/github-adoption/internal/gateway"
)

// Aggregator is the use case for building adoption reports.
// It orchestrates the fetching and analysis of search results.
type Aggregator struct {
	fetcher         gateway.Fetcher
	filterLanguages []string
	logger          *slog.Logger
}

// NewAggregator creates a new Aggregator instance.
// An empty filterLanguages falls back to DefaultFilterLanguages.
func NewAggregator(fetcher gateway.Fetcher, filterLanguages []string, logger *slog.Logger) *Aggregator {
	if len(filterLanguages) == 0 {
		filterLanguages = DefaultFilterLanguages
	}
	return &Aggregator{
		fetcher:         fetcher,
		filterLanguages: filterLanguages,
		logger:          logger,
	}
}

// Fetch runs the search and checks the uniqueness of the result set.
// A duplicate is logged, not returned: the data is still usable for counting.
func (a *Aggregator) Fetch(ctx context.Context, query string) (*domain.ResultSet, error) {
	rs, err := a.fetcher.FetchRepositories(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repositories: %w", err)
	}
	if rs.Truncated {
		a.logger.Warn("search ended early, report is based on partial results", "repositories", rs.Len(), "reason", rs.StopReason)
	}
	if err := rs.Validate(); err != nil {
		a.logger.Warn("result set failed the uniqueness check", "error", err)
	}
	a.logger.Info("total repositories found", "count", rs.Len())
	return rs, nil
}

// BuildReport fetches the repositories matching query and aggregates them.
func (a *Aggregator) BuildReport(ctx context.Context, query string) (*domain.Report, error) {
	a.logger.Debug("usecase: starting report", "query", query, "filter_languages", a.filterLanguages)

	rs, err := a.Fetch(ctx, query)
	if err != nil {
		return nil, err
	}
	report := Analyze(rs, a.filterLanguages)

	a.logger.Debug("usecase: report complete", "months", len(report.Monthly), "languages", len(report.Languages))
	return report, nil
}
