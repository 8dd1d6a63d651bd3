package content

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func TestParseFrontMatter(t *testing.T) {
	raw := []byte("---\ntitle: Spring Gala\ndate: 2026-04-12\ntags:\n  - fundraising\n  - community\nrsvpUrl: https://example.org/rsvp\n---\n\n# Join us\n")
	fm, body, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if fm.Title != "Spring Gala" || fm.Date != "2026-04-12" || fm.RSVPURL != "https://example.org/rsvp" {
		t.Fatalf("unexpected front matter %+v", fm)
	}
	if len(fm.Tags) != 2 || fm.Tags[1] != "community" {
		t.Fatalf("unexpected tags %v", fm.Tags)
	}
	if body != "# Join us\n" {
		t.Fatalf("unexpected body %q", body)
	}

	if _, _, err := Parse([]byte("---\ntitle: broken\n")); err == nil {
		t.Fatalf("expected error for unterminated front matter")
	}
	fm, body, err = Parse([]byte("plain body"))
	if err != nil || fm.Title != "" || body != "plain body" {
		t.Fatalf("expected body-only document, got %+v %q %v", fm, body, err)
	}
}

func testLibrary() *Library {
	return NewLibraryFS(fstest.MapFS{
		"blog/older.mdx":     {Data: []byte("---\ntitle: Older\ndate: 2025-01-01\n---\nold")},
		"blog/newer.mdx":     {Data: []byte("---\ntitle: Newer\ndate: 2026-01-01\n---\nnew")},
		"blog/notes.txt":     {Data: []byte("ignored")},
		"events/later.mdx":   {Data: []byte("---\ntitle: Later\ndate: 2026-09-01\n---\n")},
		"events/sooner.mdx":  {Data: []byte("---\ntitle: Sooner\ndate: 2026-06-01\n---\n")},
		"pages/about-us.mdx": {Data: []byte("---\ntitle: About\ndescription: Who we are\n---\nbody")},
	})
}

func TestListOrdering(t *testing.T) {
	lib := testLibrary()

	posts, err := lib.List(KindBlog)
	if err != nil {
		t.Fatalf("list blog: %v", err)
	}
	if len(posts) != 2 || posts[0].Slug != "newer" {
		t.Fatalf("expected newest post first, got %+v", posts)
	}

	events, err := lib.List(KindEvents)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 || events[0].Slug != "sooner" {
		t.Fatalf("expected soonest event first, got %+v", events)
	}

	news, err := lib.List(KindNews)
	if err != nil || len(news) != 0 {
		t.Fatalf("expected empty news list, got %v (err=%v)", news, err)
	}
}

func TestGet(t *testing.T) {
	lib := testLibrary()

	page, err := lib.Get(KindPages, "about-us")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	if page.FrontMatter.Description != "Who we are" || page.Body != "body" {
		t.Fatalf("unexpected page %+v", page)
	}
	for _, name := range []string{"missing", "../pages/about-us", "About Us"} {
		if _, err := lib.Get(KindPages, name); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%q: expected ErrNotFound, got %v", name, err)
		}
	}
}

func TestParseRedirects(t *testing.T) {
	csv := "old_url,new_url,type,title,notes\n" +
		"https://old.example.org/about-us/,/about,page,About,\n" +
		"/donate-now,/donate,page,Donate,moved\n" +
		"/orphan,,page,Orphan,no target\n"
	entries, err := ParseRedirects(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 redirects, got %d", len(entries))
	}
	if entries[0].From() != "/about-us" || entries[0].NewURL != "/about" {
		t.Fatalf("unexpected first redirect %+v (from %s)", entries[0], entries[0].From())
	}
	if entries[1].Notes != "moved" {
		t.Fatalf("expected notes column, got %+v", entries[1])
	}
}

func TestLoadRedirectsMissingFile(t *testing.T) {
	entries, err := LoadRedirects(t.TempDir() + "/nope.csv")
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected no redirects and no error, got %v %v", entries, err)
	}
}
