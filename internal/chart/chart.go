// Package chart renders adoption reports as image files using gonum/plot.
package chart

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/naka-gawa/github-adoption/internal/domain"
)

const (
	width  = 10 * vg.Inch
	height = 5 * vg.Inch
)

// Series is one named line on a cumulative chart.
type Series struct {
	Name    string
	Buckets []domain.MonthlyBucket
}

// Cumulative draws the running totals of each series against time.
// The image format follows the extension of path.
func Cumulative(path, title string, series ...Series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Cumulative Count"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	rotateLabels(p)
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true

	for i, s := range series {
		xys := make(plotter.XYs, len(s.Buckets))
		for j, b := range s.Buckets {
			xys[j].X = float64(b.Month.Unix())
			xys[j].Y = float64(b.Cumulative)
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("failed to build series %q: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		points.Shape = draw.CircleGlyph{}
		p.Add(line, points)
		p.Legend.Add(s.Name, line, points)
	}

	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	return nil
}

// Languages draws a bar chart of repository counts per language, in the order given.
func Languages(path string, buckets []domain.LanguageBucket) error {
	p := plot.New()
	p.Title.Text = "Repositories by Primary Language"
	p.X.Label.Text = "Language"
	p.Y.Label.Text = "Number of Repositories"
	rotateLabels(p)

	values := make(plotter.Values, len(buckets))
	names := make([]string, len(buckets))
	for i, b := range buckets {
		values[i] = float64(b.Count)
		names[i] = b.Language
	}
	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("failed to build language bars: %w", err)
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)

	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	return nil
}

func rotateLabels(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

// Renderer writes the charts of a report into a directory.
type Renderer struct {
	dir    string
	format string
	logger *slog.Logger
}

// NewRenderer creates a Renderer. format is an image extension such as png, svg or pdf.
func NewRenderer(dir, format string, logger *slog.Logger) *Renderer {
	return &Renderer{dir: dir, format: strings.TrimPrefix(format, "."), logger: logger}
}

// Render writes every chart that has data and returns the paths written.
// Charts are independent files, so they are drawn concurrently.
func (r *Renderer) Render(ctx context.Context, report *domain.Report) ([]string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}

	title := fmt.Sprintf("Cumulative Number of Repositories Matching %q", report.Query)
	jobs := []struct {
		name  string
		empty bool
		draw  func(path string) error
	}{
		{
			name:  "cumulative",
			empty: len(report.Monthly) == 0,
			draw: func(path string) error {
				return Cumulative(path, title, Series{Name: "all languages", Buckets: report.Monthly})
			},
		},
		{
			name:  "cumulative_filtered",
			empty: len(report.MonthlyFiltered) == 0,
			draw: func(path string) error {
				return Cumulative(path, title, Series{Name: strings.Join(report.FilterLanguages, ", "), Buckets: report.MonthlyFiltered})
			},
		},
		{
			name:  "languages",
			empty: len(report.Languages) == 0,
			draw: func(path string) error {
				return Languages(path, report.Languages)
			},
		},
	}

	paths := make([]string, len(jobs))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		if job.empty {
			r.logger.Debug("skipping chart without data", "chart", job.name)
			continue
		}
		path := filepath.Join(r.dir, job.name+"."+r.format)
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			if err := job.draw(path); err != nil {
				return err
			}
			paths[i] = path
			r.logger.Debug("chart written", "path", path)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != "" {
			written = append(written, p)
		}
	}
	return written, nil
}
