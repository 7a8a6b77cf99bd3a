package model

import (
	"strings"
	"time"
)

type Status string

const (
	StatusDraft  Status = "draft"
	StatusReview Status = "review"
	StatusFinal  Status = "final"
)

// SnippetVersion is a frozen copy of a snippet body kept in its history.
type SnippetVersion struct {
	Version     int       `json:"version"`
	HtmlContent string    `json:"htmlContent"`
	Status      Status    `json:"status,omitempty"`
	Note        string    `json:"note,omitempty"`
	SavedAt     time.Time `json:"savedAt"`
}

// Snippet is one individually authored page: a complete HTML document with
// zero or more embedded style blocks.
type Snippet struct {
	Id          string           `json:"id" validate:"required"`
	Title       string           `json:"title"`
	HtmlContent string           `json:"htmlContent"`
	Category    string           `json:"category,omitempty"`
	Status      Status           `json:"status,omitempty" validate:"omitempty,oneof=draft review final"`
	Tags        []string         `json:"tags,omitempty"`
	Version     int              `json:"version"`
	Versions    []SnippetVersion `json:"versions,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// PushVersion stores the current body in the history and bumps the version
// counter.
func (s *Snippet) PushVersion(note string, now time.Time) {
	if s.Version < 1 {
		s.Version = 1
	}
	s.Versions = append(s.Versions, SnippetVersion{
		Version:     s.Version,
		HtmlContent: s.HtmlContent,
		Status:      s.Status,
		Note:        note,
		SavedAt:     now,
	})
	s.Version++
	s.UpdatedAt = now
}

// Matches reports whether the query occurs in the title, a tag or the body,
// ignoring case. An empty query matches everything.
func (s *Snippet) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(s.Title), q) {
		return true
	}
	for _, t := range s.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(s.HtmlContent), q)
}

// Image is an uploaded picture referenced from snippets as pf://alias.
type Image struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Alias   string `json:"alias,omitempty"`
	DataUrl string `json:"dataUrl"`
}

// Category groups snippets in the library.
type Category struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// CssTemplate is a reusable master style.
type CssTemplate struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Css         string `json:"css"`
	Description string `json:"description,omitempty"`
}

// PageTemplate is a starting point for new snippets.
type PageTemplate struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	HtmlContent string `json:"htmlContent"`
}

// Tag is a free-form label.
type Tag struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}
