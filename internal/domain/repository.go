// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"errors"
	"fmt"
	"time"
)

// UnknownLanguage is reported for repositories whose primary language is missing.
const UnknownLanguage = "Unknown"

// ErrDuplicate is wrapped by ResultSet.Validate when a unique field repeats.
var ErrDuplicate = errors.New("duplicate repository")

// Repository is a single search hit, flattened to the fields the report needs.
type Repository struct {
	FullName  string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Language  string    `json:"language"`
	HTMLURL   string    `json:"url"`
}

// NewRepository builds a Repository, substituting UnknownLanguage for an empty language.
func NewRepository(fullName string, createdAt time.Time, language, htmlURL string) Repository {
	if language == "" {
		language = UnknownLanguage
	}
	return Repository{
		FullName:  fullName,
		CreatedAt: createdAt,
		Language:  language,
		HTMLURL:   htmlURL,
	}
}

// ResultSet holds the repositories returned by a search, in server order,
// together with what the fetch loop observed while collecting them.
type ResultSet struct {
	Query        string       `json:"query"`
	Repositories []Repository `json:"repositories"`
	TotalCount   int          `json:"total_count"`
	Pages        int          `json:"pages"`

	// Truncated is set when a failed request ended the loop early.
	Truncated  bool   `json:"truncated"`
	StopReason string `json:"stop_reason,omitempty"`
}

// Len returns the number of repositories collected.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Repositories)
}

// Validate checks that full names and URLs are unique across the set.
// Nothing is removed; the caller decides what to do with a violation.
func (rs *ResultSet) Validate() error {
	if rs == nil {
		return nil
	}
	names := make(map[string]struct{}, len(rs.Repositories))
	urls := make(map[string]struct{}, len(rs.Repositories))
	for _, r := range rs.Repositories {
		if _, ok := names[r.FullName]; ok {
			return fmt.Errorf("%w: name %q", ErrDuplicate, r.FullName)
		}
		names[r.FullName] = struct{}{}
		if _, ok := urls[r.HTMLURL]; ok {
			return fmt.Errorf("%w: url %q", ErrDuplicate, r.HTMLURL)
		}
		urls[r.HTMLURL] = struct{}{}
	}
	return nil
}
