package content

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strings"
)

// Redirect maps a legacy site URL to its new location.
type Redirect struct {
	OldURL string `json:"old_url"`
	NewURL string `json:"new_url"`
	Type   string `json:"type,omitempty"`
	Title  string `json:"title,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// From returns the request path the redirect matches.
func (r Redirect) From() string {
	return normalizePath(r.OldURL)
}

// LoadRedirects reads the migration CSV. A missing file yields no redirects.
func LoadRedirects(path string) ([]Redirect, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Redirect{}, nil
		}
		return nil, fmt.Errorf("open redirects: %w", err)
	}
	defer f.Close()
	return ParseRedirects(f)
}

// ParseRedirects reads a header row followed by data rows. Columns are matched by
// header name; rows missing either URL are dropped.
func ParseRedirects(r io.Reader) ([]Redirect, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []Redirect{}, nil
		}
		return nil, fmt.Errorf("read redirects header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := []Redirect{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read redirects: %w", err)
		}
		entry := Redirect{
			OldURL: field(row, "old_url"),
			NewURL: field(row, "new_url"),
			Type:   field(row, "type"),
			Title:  field(row, "title"),
			Notes:  field(row, "notes"),
		}
		if entry.OldURL == "" || entry.NewURL == "" {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// normalizePath reduces an absolute or relative URL to a path without a trailing slash.
func normalizePath(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}

// NormalizePath is exported for request matching.
func NormalizePath(p string) string { return normalizePath(p) }
