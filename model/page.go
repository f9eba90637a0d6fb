package model

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PageStatus is the extraction outcome of a page.
type PageStatus string

const (
	PageStatusPending    PageStatus = "pending"
	PageStatusOK         PageStatus = "ok"
	PageStatusNotFound   PageStatus = "not_found"
	PageStatusUnbalanced PageStatus = "unbalanced"
	PageStatusEmpty      PageStatus = "empty"
	PageStatusFailed     PageStatus = "failed"
)

// Page is one wiki page with its raw wikitext.
type Page struct {
	ID           int64      `json:"id"`
	RID          uuid.UUID  `json:"rid"`
	Title        string     `json:"title"`
	Source       string     `json:"source,omitempty"`
	Wikitext     string     `json:"wikitext,omitempty" db:"-"` // not stored, only needed while building
	Subject      string     `json:"subject,omitempty"`
	Status       PageStatus `json:"status"`
	TemplateName string     `json:"template_name,omitempty"`
	TripleCount  int        `json:"triple_count"`
	Metadata     Metadata   `json:"metadata,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewPage creates a pending page.
func NewPage(title string, wikitext string, source string) *Page {
	return &Page{
		Title:    strings.TrimSpace(title),
		Source:   source,
		Wikitext: wikitext,
		Status:   PageStatusPending,
		Metadata: Metadata{},
	}
}

// NewPageFromFile reads an infobox file. The first line carries the title as
// "--- Title ---", everything after it is wikitext. Files without that header
// use the file name as title and the whole content as wikitext.
func NewPageFromFile(filePath string) (*Page, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	title, wikitext, ok := ParsePageFile(string(content))
	if !ok {
		filename := filepath.Base(filePath)
		title = strings.TrimSuffix(filename, filepath.Ext(filename))
		wikitext = string(content)
	}

	return NewPage(title, wikitext, filePath), nil
}

// ParsePageFile splits the "--- Title ---" header from the wikitext.
func ParsePageFile(content string) (title string, wikitext string, ok bool) {
	header, rest, _ := strings.Cut(content, "\n")

	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, "---") {
		return "", "", false
	}

	title = strings.TrimSpace(strings.Trim(header, "-"))
	if title == "" {
		return "", "", false
	}

	return title, rest, true
}

// FormatPageFile renders a page in the infobox file format.
func FormatPageFile(title string, wikitext string) string {
	return "--- " + strings.TrimSpace(title) + " ---\n" + wikitext
}
