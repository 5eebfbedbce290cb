package domain

import "time"

// DateLayout is the calendar date format used in summaries.
const DateLayout = "2006-01-02"

// MonthlyBucket is the number of repositories created in one calendar month,
// plus the running total up to and including that month.
type MonthlyBucket struct {
	Month      time.Time `json:"month"`
	Count      int       `json:"count"`
	Cumulative int       `json:"cumulative"`
}

// LanguageBucket counts repositories by primary language.
type LanguageBucket struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

// Summary holds the headline numbers of a report.
type Summary struct {
	Total          int     `json:"total"`
	FirstCreated   string  `json:"first_created,omitempty"`
	LastCreated    string  `json:"last_created,omitempty"`
	MeanPerMonth   float64 `json:"mean_per_month"`
	MedianPerMonth float64 `json:"median_per_month"`
}

// Report is the aggregated view of a ResultSet.
type Report struct {
	Query           string           `json:"query"`
	Summary         Summary          `json:"summary"`
	Monthly         []MonthlyBucket  `json:"monthly"`
	FilterLanguages []string         `json:"filter_languages"`
	MonthlyFiltered []MonthlyBucket  `json:"monthly_filtered"`
	Languages       []LanguageBucket `json:"languages"`
	Truncated       bool             `json:"truncated"`
}
