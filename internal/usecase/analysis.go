package usecase

import (
	"slices"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-adoption/internal/domain"
)

// DefaultFilterLanguages are the languages kept by the filtered adoption series.
var DefaultFilterLanguages = []string{"TeX", "HTML"}

// MonthOf truncates t to the first instant of its calendar month in UTC.
func MonthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthlyCumulative counts repositories per creation month and carries a running total.
// Only months with at least one repository appear, in chronological order.
func MonthlyCumulative(repos []domain.Repository) []domain.MonthlyBucket {
	counts := make(map[time.Time]int)
	for _, r := range repos {
		counts[MonthOf(r.CreatedAt)]++
	}

	months := make([]time.Time, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Before(months[j])
	})

	buckets := make([]domain.MonthlyBucket, 0, len(months))
	running := 0
	for _, m := range months {
		running += counts[m]
		buckets = append(buckets, domain.MonthlyBucket{
			Month:      m,
			Count:      counts[m],
			Cumulative: running,
		})
	}
	return buckets
}

// MonthlyCumulativeFor is MonthlyCumulative restricted to repositories whose language is in languages.
func MonthlyCumulativeFor(repos []domain.Repository, languages []string) []domain.MonthlyBucket {
	filtered := make([]domain.Repository, 0, len(repos))
	for _, r := range repos {
		if slices.Contains(languages, r.Language) {
			filtered = append(filtered, r)
		}
	}
	return MonthlyCumulative(filtered)
}

// LanguageFrequency counts repositories per language, most common first.
func LanguageFrequency(repos []domain.Repository) []domain.LanguageBucket {
	counts := make(map[string]int)
	for _, r := range repos {
		language := r.Language
		if language == "" {
			language = domain.UnknownLanguage
		}
		counts[language]++
	}

	buckets := make([]domain.LanguageBucket, 0, len(counts))
	for language, count := range counts {
		buckets = append(buckets, domain.LanguageBucket{Language: language, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Language < buckets[j].Language
	})
	return buckets
}

// Summarize computes the headline numbers for repos.
// Mean and median are taken over the per-month counts of the months that have repositories.
func Summarize(repos []domain.Repository) domain.Summary {
	summary := domain.Summary{Total: len(repos)}
	if len(repos) == 0 {
		return summary
	}

	first, last := repos[0].CreatedAt, repos[0].CreatedAt
	for _, r := range repos[1:] {
		if r.CreatedAt.Before(first) {
			first = r.CreatedAt
		}
		if r.CreatedAt.After(last) {
			last = r.CreatedAt
		}
	}
	summary.FirstCreated = first.UTC().Format(domain.DateLayout)
	summary.LastCreated = last.UTC().Format(domain.DateLayout)

	monthly := MonthlyCumulative(repos)
	perMonth := make(stats.Float64Data, 0, len(monthly))
	for _, b := range monthly {
		perMonth = append(perMonth, float64(b.Count))
	}
	// Both only fail on empty input, which is excluded above.
	summary.MeanPerMonth, _ = stats.Mean(perMonth)
	summary.MedianPerMonth, _ = stats.Median(perMonth)
	return summary
}

// Analyze builds a Report from a fetched result set.
func Analyze(rs *domain.ResultSet, filterLanguages []string) *domain.Report {
	var repos []domain.Repository
	report := &domain.Report{FilterLanguages: filterLanguages}
	if rs != nil {
		repos = rs.Repositories
		report.Query = rs.Query
		report.Truncated = rs.Truncated
	}
	report.Summary = Summarize(repos)
	report.Monthly = MonthlyCumulative(repos)
	report.MonthlyFiltered = MonthlyCumulativeFor(repos, filterLanguages)
	report.Languages = LanguageFrequency(repos)
	return report
}
