// Package transform rewrites DokuWiki flavoured text into Wiki.js markdown.
//
// Every pass works on a document reduced to a slice of lines and makes no
// assumption about where logical units begin or end.
package transform

import (
	"regexp"
	"strings"
)

// maxStalls is the number of non-advancing scan iterations tolerated on a
// single line before its rewrite is abandoned.
const maxStalls = 2

var (
	mathRe   = regexp.MustCompile(`\$\$.*?\$\$`)
	openerRe = regexp.MustCompile(`\[\[|\{\{`)
	markerRe = regexp.MustCompile(`(\[\[|\{\{)(?P<uri>[^|]+?)(\|(?P<text>.+?)?)?(\]\]|\}\})`)

	uriGroup  = markerRe.SubexpIndex("uri")
	textGroup = markerRe.SubexpIndex("text")
)

// LinkWarning reports a line whose link rewrite was abandoned.
type LinkWarning struct {
	Line    int
	Content string
}

// RewriteLinks replaces DokuWiki link and embed markers ([[...]] and {{...}})
// with markdown links. Markers starting inside a $$...$$ math span are left
// alone. The returned slice has the same length as lines.
func RewriteLinks(lines []string) ([]string, []LinkWarning) {
	out := make([]string, len(lines))
	var warnings []LinkWarning
	for i, line := range lines {
		rewritten, ok := rewriteLine(line)
		if !ok {
			warnings = append(warnings, LinkWarning{Line: i, Content: line})
		}
		out[i] = rewritten
	}
	return out, warnings
}

// rewriteLine rewrites every marker on line. It reports false when the scan
// stopped making progress and the line was left partially rewritten.
// Openers without a complete marker after them are left as text.
func rewriteLine(line string) (string, bool) {
	pos := nextLinkStart(line, 0)
	stalls := 0
	for pos != -1 {
		start, end, link, ok := matchMarker(line, pos)
		if !ok {
			return line, true
		}
		line = line[:start] + link + line[end:]
		prev := pos
		pos = nextLinkStart(line, pos)
		if pos != -1 && pos <= prev {
			stalls++
		}
		if stalls > maxStalls {
			return line, false
		}
	}
	return line, true
}

// nextLinkStart returns the byte offset of the first opener at or after pos
// that does not sit inside a math span, or -1.
func nextLinkStart(line string, pos int) int {
	if pos >= len(line) {
		return -1
	}
	spans := mathSpans(line)
	for _, loc := range openerRe.FindAllStringIndex(line[pos:], -1) {
		start := pos + loc[0]
		if !inSpans(spans, start) {
			return start
		}
	}
	return -1
}

// matchMarker finds the first complete marker at or after pos that does not
// start inside a math span and returns its bounds and markdown replacement.
func matchMarker(line string, pos int) (start, end int, link string, ok bool) {
	spans := mathSpans(line)
	for p := pos; p < len(line); {
		m := markerRe.FindStringSubmatchIndex(line[p:])
		if m == nil {
			return 0, 0, "", false
		}
		start, end = p+m[0], p+m[1]
		if inSpans(spans, start) {
			p = start + 1
			continue
		}
		uri := line[p+m[2*uriGroup] : p+m[2*uriGroup+1]]
		var text string
		if m[2*textGroup] >= 0 {
			text = line[p+m[2*textGroup] : p+m[2*textGroup+1]]
		}
		return start, end, markdownLink(uri, text), true
	}
	return 0, 0, "", false
}

// markdownLink normalizes a DokuWiki target and renders [label](uri).
func markdownLink(uri, text string) string {
	uri = NormalizeURI(uri)
	if text == "" {
		text = uri
	}
	return "[" + text + "](" + uri + ")"
}

// NormalizeURI maps a DokuWiki page id onto a root-relative path. External
// http(s) targets are returned untouched apart from a trailing pipe.
func NormalizeURI(uri string) string {
	uri = strings.TrimRight(uri, "|")
	if strings.HasPrefix(uri, "http") {
		return uri
	}
	uri = strings.ReplaceAll(uri, ":", "/")
	if !strings.HasPrefix(uri, "/") {
		uri = "/" + uri
	}
	return uri
}

func mathSpans(line string) [][]int {
	return mathRe.FindAllStringIndex(line, -1)
}

func inSpans(spans [][]int, pos int) bool {
	for _, s := range spans {
		if s[0] <= pos && pos < s[1] {
			return true
		}
	}
	return false
}
