package chart

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-adoption/internal/domain"
)

func testReport() *domain.Report {
	jan := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Report{
		Query: "manubot in:readme",
		Monthly: []domain.MonthlyBucket{
			{Month: jan, Count: 2, Cumulative: 2},
			{Month: mar, Count: 1, Cumulative: 3},
		},
		FilterLanguages: []string{"TeX", "HTML"},
		MonthlyFiltered: []domain.MonthlyBucket{{Month: jan, Count: 1, Cumulative: 1}},
		Languages: []domain.LanguageBucket{
			{Language: "TeX", Count: 2},
			{Language: "Unknown", Count: 1},
		},
	}
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestCumulative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cumulative.png")
	report := testReport()

	err := Cumulative(path, "title", Series{Name: "all", Buckets: report.Monthly}, Series{Name: "TeX, HTML", Buckets: report.MonthlyFiltered})

	require.NoError(t, err)
	assertNonEmptyFile(t, path)
}

func TestLanguages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "languages.svg")

	require.NoError(t, Languages(path, testReport().Languages))
	assertNonEmptyFile(t, path)
}

func TestRenderer_Render(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	renderer := NewRenderer(dir, "png", slog.New(slog.NewTextHandler(io.Discard, nil)))

	paths, err := renderer.Render(context.Background(), testReport())

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "cumulative.png"),
		filepath.Join(dir, "cumulative_filtered.png"),
		filepath.Join(dir, "languages.png"),
	}, paths)
	for _, p := range paths {
		assertNonEmptyFile(t, p)
	}
}

func TestRenderer_RenderSkipsEmptyCharts(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(dir, ".svg", slog.New(slog.NewTextHandler(io.Discard, nil)))
	report := testReport()
	report.MonthlyFiltered = nil

	paths, err := renderer.Render(context.Background(), report)

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "cumulative.svg"),
		filepath.Join(dir, "languages.svg"),
	}, paths)
	_, err = os.Stat(filepath.Join(dir, "cumulative_filtered.svg"))
	assert.True(t, os.IsNotExist(err))
}

func TestRenderer_RenderEmptyReport(t *testing.T) {
	renderer := NewRenderer(t.TempDir(), "png", slog.New(slog.NewTextHandler(io.Discard, nil)))

	paths, err := renderer.Render(context.Background(), &domain.Report{})

	require.NoError(t, err)
	assert.Empty(t, paths)
}
