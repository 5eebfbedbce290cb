package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{"total_count": 3, "items": [
	{"full_name": "org/a", "created_at": "2023-01-05T00:00:00Z", "language": "TeX", "html_url": "https://github.com/org/a"},
	{"full_name": "org/b", "created_at": "2023-01-20T00:00:00Z", "language": null, "html_url": "https://github.com/org/b"},
	{"full_name": "org/c", "created_at": "2023-02-01T00:00:00Z", "language": "HTML", "html_url": "https://github.com/org/c"}
]}`

func newSearchServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/repositories", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, searchBody)
	}))
	t.Cleanup(server.Close)
	return server
}

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestReportCommand_JSONWithCharts(t *testing.T) {
	server := newSearchServer(t)
	chartDir := filepath.Join(t.TempDir(), "out")

	stdout, _, err := run(t, "report",
		"--base-url", server.URL,
		"--delay", "0s",
		"--per-page", "100",
		"--query", "manubot in:readme",
		"--backend", "rest",
		"--languages", "TeX,HTML",
		"--chart-dir", chartDir,
		"--chart-format", "svg",
		"--output", "json",
		"--color", "never",
	)
	require.NoError(t, err)

	var report struct {
		Query   string `json:"query"`
		Summary struct {
			Total        int    `json:"total"`
			FirstCreated string `json:"first_created"`
			LastCreated  string `json:"last_created"`
		} `json:"summary"`
		Monthly []struct {
			Count      int `json:"count"`
			Cumulative int `json:"cumulative"`
		} `json:"monthly"`
		Languages []struct {
			Language string `json:"language"`
			Count    int    `json:"count"`
		} `json:"languages"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "manubot in:readme", report.Query)
	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, "2023-01-05", report.Summary.FirstCreated)
	assert.Equal(t, "2023-02-01", report.Summary.LastCreated)
	require.Len(t, report.Monthly, 2)
	assert.Equal(t, 2, report.Monthly[0].Cumulative)
	assert.Equal(t, 3, report.Monthly[1].Cumulative)
	assert.Len(t, report.Languages, 3)

	for _, name := range []string{"cumulative.svg", "cumulative_filtered.svg", "languages.svg"} {
		_, err := os.Stat(filepath.Join(chartDir, name))
		assert.NoError(t, err, name)
	}
}

func TestFetchCommand_Table(t *testing.T) {
	server := newSearchServer(t)

	stdout, _, err := run(t, "fetch",
		"--base-url", server.URL,
		"--delay", "0s",
		"--per-page", "100",
		"--query", "manubot in:readme",
		"--backend", "rest",
		"--output", "table",
		"--color", "never",
	)
	require.NoError(t, err)

	assert.Contains(t, stdout, "org/a")
	assert.Contains(t, stdout, "Unknown")
	assert.Contains(t, stdout, "https://github.com/org/c")
	assert.Contains(t, stdout, "Total repositories found: 3")
}

func TestFetchCommand_InvalidPerPage(t *testing.T) {
	_, _, err := run(t, "fetch",
		"--per-page", "500",
		"--delay", "0s",
		"--base-url", "http://127.0.0.1:1",
		"--query", "manubot in:readme",
		"--backend", "rest",
		"--output", "table",
		"--color", "never",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "per_page")
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { SetVersion("dev") })

	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "github-adoption 1.2.3\n", stdout)
}
