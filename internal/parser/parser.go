// Package parser reads converted Wiki.js pages back: front matter, title and
// the link targets present in the markdown body.
package parser

import (
	"bytes"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Result holds the output of parsing a converted page.
type Result struct {
	Frontmatter map[string]any
	Body        []byte
	Links       []string
	Title       string
}

var md = goldmark.New()

// Parse extracts front matter, body, link destinations and title from a
// markdown page. Front matter that is not valid YAML is treated as body.
func Parse(data []byte) (*Result, error) {
	fm, body := splitFrontmatter(data)

	doc := md.Parser().Parse(text.NewReader(body))
	links, heading := walk(doc, body)

	return &Result{
		Frontmatter: fm,
		Body:        body,
		Links:       links,
		Title:       deriveTitle(fm, heading),
	}, nil
}

func splitFrontmatter(data []byte) (map[string]any, []byte) {
	var fm map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return nil, data
	}
	return fm, body
}

// walk collects deduplicated link and image destinations and the text of
// the first level one heading.
func walk(doc ast.Node, source []byte) ([]string, string) {
	seen := make(map[string]struct{})
	var links []string
	var heading string

	add := func(dest []byte) {
		d := strings.TrimSpace(string(dest))
		if d == "" {
			return
		}
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		links = append(links, d)
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Link:
			add(v.Destination)
		case *ast.Image:
			add(v.Destination)
		case *ast.Heading:
			if v.Level == 1 && heading == "" {
				heading = strings.TrimSpace(string(v.Text(source)))
			}
		}
		return ast.WalkContinue, nil
	})
	return links, heading
}

// deriveTitle returns the front matter "title" if present, otherwise the
// first H1 heading, otherwise empty string.
func deriveTitle(fm map[string]any, heading string) string {
	if fm != nil {
		if s, ok := fm["title"].(string); ok && s != "" {
			return s
		}
	}
	return heading
}

// InternalLinks keeps the root-relative destinations of links, without
// fragment or query, e.g. "/ns/page#top" -> "/ns/page".
func InternalLinks(links []string) []string {
	seen := make(map[string]struct{}, len(links))
	var out []string
	for _, l := range links {
		if !strings.HasPrefix(l, "/") || strings.HasPrefix(l, "//") {
			continue
		}
		if i := strings.IndexAny(l, "#?"); i >= 0 {
			l = l[:i]
		}
		if l == "" || l == "/" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
