package output

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/naka-gawa/github-adoption/internal/domain"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
)

const monthLayout = "2006-01"

// WriteJSON prints v as indented JSON.
func (p *Printer) WriteJSON(v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	fmt.Fprintln(p.out, string(jsonData))
	return nil
}

// RenderReport prints a report in the requested format.
func (p *Printer) RenderReport(report *domain.Report, format string) error {
	if format == FormatJSON {
		return p.WriteJSON(report)
	}

	if report.Truncated {
		p.Warning("The search ended early; the figures below are based on partial results.")
	}

	p.Header("Summary")
	p.Print("Query: %s", report.Query)
	p.Print("Total repositories found: %s", p.Bold(strconv.Itoa(report.Summary.Total)))
	if report.Summary.Total > 0 {
		p.Print("First repository created on: %s", report.Summary.FirstCreated)
		p.Print("Most recent repository created on: %s", report.Summary.LastCreated)
		p.Print("New repositories per month: mean %.2f, median %.1f", report.Summary.MeanPerMonth, report.Summary.MedianPerMonth)
	}

	p.Header("Cumulative repositories per month")
	if err := p.monthlyTable(report.Monthly); err != nil {
		return err
	}

	p.Header(fmt.Sprintf("Cumulative repositories per month (%s)", strings.Join(report.FilterLanguages, ", ")))
	if err := p.monthlyTable(report.MonthlyFiltered); err != nil {
		return err
	}

	p.Header("Language distribution")
	table := NewTable(p.out, []string{"Language", "Count"})
	for _, b := range report.Languages {
		table.AddRow(b.Language, strconv.Itoa(b.Count))
	}
	return p.renderOrEmpty(table)
}

func (p *Printer) monthlyTable(buckets []domain.MonthlyBucket) error {
	table := NewTable(p.out, []string{"Month", "New", "Cumulative"})
	for _, b := range buckets {
		table.AddRow(b.Month.Format(monthLayout), strconv.Itoa(b.Count), strconv.Itoa(b.Cumulative))
	}
	return p.renderOrEmpty(table)
}

// RenderRepositories prints the fetched rows in the requested format.
func (p *Printer) RenderRepositories(rs *domain.ResultSet, format string) error {
	if format == FormatJSON {
		return p.WriteJSON(rs)
	}

	table := NewTable(p.out, []string{"Name", "Created", "Language", "URL"})
	for _, r := range rs.Repositories {
		table.AddRow(r.FullName, r.CreatedAt.UTC().Format(domain.DateLayout), r.Language, r.HTMLURL)
	}
	if err := p.renderOrEmpty(table); err != nil {
		return err
	}
	p.Print("")
	p.Print("Total repositories found: %d (total_count reported: %d, pages: %d)", rs.Len(), rs.TotalCount, rs.Pages)
	if rs.Truncated {
		p.Warning("The search ended early: %s", rs.StopReason)
	}
	return nil
}

func (p *Printer) renderOrEmpty(table *Table) error {
	if table.Len() == 0 {
		p.Print("(no data)")
		return nil
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
