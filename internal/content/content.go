// Package content serves the site's MDX documents: blog posts, news, event pages and
// static pages, each a Markdown body behind a YAML front-matter block.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/gosimple/slug"
)

type Kind string

const (
	KindBlog   Kind = "blog"
	KindNews   Kind = "news"
	KindEvents Kind = "events"
	KindPages  Kind = "pages"
)

func (k Kind) Valid() bool {
	return k == KindBlog || k == KindNews || k == KindEvents || k == KindPages
}

var ErrNotFound = errors.New("content not found")

// FrontMatter is the union of the fields used across content kinds.
type FrontMatter struct {
	Title       string   `yaml:"title" json:"title"`
	Slug        string   `yaml:"slug" json:"slug,omitempty"`
	Date        string   `yaml:"date" json:"date,omitempty"`
	EndDate     string   `yaml:"endDate" json:"endDate,omitempty"`
	Excerpt     string   `yaml:"excerpt" json:"excerpt,omitempty"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Category    string   `yaml:"category" json:"category,omitempty"`
	Tags        []string `yaml:"tags" json:"tags,omitempty"`
	Image       string   `yaml:"image" json:"image,omitempty"`
	Location    string   `yaml:"location" json:"location,omitempty"`
	RSVPURL     string   `yaml:"rsvpUrl" json:"rsvpUrl,omitempty"`
}

// Item is one parsed document. Slug is always the file name without extension.
type Item struct {
	Slug        string      `json:"slug"`
	FrontMatter FrontMatter `json:"frontmatter"`
	Body        string      `json:"content"`
}

// Library reads documents from a content directory on every call, so edits show up
// without a restart.
type Library struct {
	fsys fs.FS
}

func NewLibrary(dir string) *Library {
	return &Library{fsys: os.DirFS(dir)}
}

// NewLibraryFS is used by tests with fstest.MapFS.
func NewLibraryFS(fsys fs.FS) *Library {
	return &Library{fsys: fsys}
}

// List returns every readable document of kind. Blog and news are newest first,
// events soonest first. Unparseable files are skipped.
func (l *Library) List(kind Kind) ([]Item, error) {
	if !kind.Valid() {
		return nil, ErrNotFound
	}
	entries, err := fs.ReadDir(l.fsys, string(kind))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Item{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", kind, err)
	}

	items := []Item{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".mdx" {
			continue
		}
		item, err := l.read(kind, strings.TrimSuffix(name, ".mdx"))
		if err != nil {
			continue
		}
		items = append(items, item)
	}

	ascending := kind == KindEvents
	sort.SliceStable(items, func(i, j int) bool {
		a, b := parseDate(items[i].FrontMatter.Date), parseDate(items[j].FrontMatter.Date)
		if ascending {
			return a.Before(b)
		}
		return a.After(b)
	})
	return items, nil
}

// Get returns a single document by slug.
func (l *Library) Get(kind Kind, name string) (Item, error) {
	if !kind.Valid() || !slug.IsSlug(name) {
		return Item{}, ErrNotFound
	}
	return l.read(kind, name)
}

func (l *Library) read(kind Kind, name string) (Item, error) {
	raw, err := fs.ReadFile(l.fsys, string(kind)+"/"+name+".mdx")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Item{}, ErrNotFound
		}
		return Item{}, fmt.Errorf("read %s/%s: %w", kind, name, err)
	}
	fm, body, err := Parse(raw)
	if err != nil {
		return Item{}, fmt.Errorf("parse %s/%s: %w", kind, name, err)
	}
	return Item{Slug: name, FrontMatter: fm, Body: body}, nil
}

var delimiter = []byte("---")

// Parse splits a document into its front matter and body. A document without a
// leading "---" line has empty front matter.
func Parse(raw []byte) (FrontMatter, string, error) {
	var fm FrontMatter
	raw = bytes.TrimPrefix(raw, []byte("\ufeff"))
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if !bytes.HasPrefix(trimmed, delimiter) {
		return fm, string(raw), nil
	}

	rest := trimmed[len(delimiter):]
	end := bytes.Index(rest, append([]byte("\n"), delimiter...))
	if end < 0 {
		return fm, "", errors.New("unterminated front matter")
	}
	header := rest[:end]
	body := rest[end+1+len(delimiter):]

	if err := yaml.Unmarshal(header, &fm); err != nil {
		return fm, "", err
	}
	return fm, strings.TrimLeft(string(body), "\r\n"), nil
}

// parseDate accepts the date layouts used in front matter. Unparseable dates sort as
// the zero time.
func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
