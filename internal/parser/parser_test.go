package parser

import (
	"slices"
	"strings"
	"testing"
)

func TestParse_ConvertedPage(t *testing.T) {
	input := []byte("---\ntitle: \"My Title\"\n---\n# My Title\nSee [Label](/ns/page) and [/img.png](/img.png).\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Title != "My Title" {
		t.Errorf("title = %q, want %q", r.Title, "My Title")
	}
	want := []string{"/ns/page", "/img.png"}
	if !slices.Equal(r.Links, want) {
		t.Errorf("links = %v, want %v", r.Links, want)
	}
	if strings.TrimSpace(string(r.Body)) != "# My Title\nSee [Label](/ns/page) and [/img.png](/img.png)." {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_QuotedTitleStaysString(t *testing.T) {
	r, err := Parse([]byte("---\ntitle: \"2021-03-04\"\n---\nbody\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Title != "2021-03-04" {
		t.Errorf("title = %q", r.Title)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	r, err := Parse([]byte("# Just a heading\nSome text with [x](http://ex.com).\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter, got %v", r.Frontmatter)
	}
	if r.Title != "Just a heading" {
		t.Errorf("title = %q, want %q", r.Title, "Just a heading")
	}
	if len(r.Links) != 1 || r.Links[0] != "http://ex.com" {
		t.Errorf("links = %v", r.Links)
	}
}

func TestParse_DuplicateLinks(t *testing.T) {
	r, _ := Parse([]byte("[a](/x) [b](/x) ![c](/y.png)\n"))
	if !slices.Equal(r.Links, []string{"/x", "/y.png"}) {
		t.Errorf("links = %v", r.Links)
	}
}

func TestInternalLinks(t *testing.T) {
	in := []string{"/ns/page#sec", "/ns/page", "http://ex.com", "//cdn.example.com/a", "/img.png?200", "/", "#top"}
	want := []string{"/ns/page", "/img.png"}
	if got := InternalLinks(in); !slices.Equal(got, want) {
		t.Errorf("InternalLinks = %v, want %v", got, want)
	}
}
