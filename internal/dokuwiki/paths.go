package dokuwiki

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Page names with special meaning in DokuWiki.
const (
	startPage   = "start"
	homePage    = "home"
	sidebarPage = "sidebar"
)

// DecodeName reverses DokuWiki's url-style filename encoding
// ("%C3%A4" -> "ä") segment by segment. Segments that are not valid
// escapes are kept verbatim. The result is NFC normalized.
func DecodeName(p string) string {
	segments := strings.Split(filepath.ToSlash(p), "/")
	for i, s := range segments {
		if decoded, err := url.PathUnescape(s); err == nil {
			s = decoded
		}
		segments[i] = norm.NFC.String(s)
	}
	return strings.Join(segments, "/")
}

// PageTarget maps a page source path relative to data/pages, e.g.
// "ns/start.txt", to its output path "ns/home.md" and the page name used as
// fallback title ("start"). skip is true for pages that have no Wiki.js
// counterpart.
func PageTarget(rel string) (target, name string, skip bool) {
	p := DecodeName(strings.TrimSuffix(filepath.ToSlash(rel), PageExt))
	dir, name := path.Split(p)
	if name == sidebarPage {
		return "", name, true
	}
	file := name
	if file == startPage {
		file = homePage
	}
	return dir + file + ".md", name, false
}

// MediaTarget maps a media path relative to data/media onto the output
// pages tree, where Wiki.js expects assets next to the pages.
func MediaTarget(rel string) string {
	return DecodeName(rel)
}
