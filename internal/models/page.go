// Package models defines the domain types for dokuwiki2wikijs.
package models

import "time"

// Kind distinguishes converted pages from copied media in the manifest.
type Kind string

const (
	KindPage  Kind = "page"
	KindMedia Kind = "media"
)

// Page is a DokuWiki page converted to Wiki.js markdown.
type Page struct {
	Source    string    `json:"source"` // relative to the installation root
	Target    string    `json:"target"` // relative to the output pages root
	Name      string    `json:"name"`   // fallback title
	Title     string    `json:"title"`
	Lines     []string  `json:"-"`
	Checksum  string    `json:"checksum"` // of the source bytes
	Warnings  []string  `json:"warnings,omitempty"`
	Converted time.Time `json:"converted_at"`
}

// URL returns the Wiki.js path the page is served under.
func (p *Page) URL() string {
	return TargetURL(p.Target)
}

// User is an entry of the DokuWiki plain auth backend.
type User struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Link is a directed edge from a converted page to an internal target.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// FileEntry is a file found while walking a tree.
type FileEntry struct {
	Path      string    `json:"path"` // relative, slash separated
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}
