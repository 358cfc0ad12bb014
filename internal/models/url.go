package models

import (
	"path"
	"path/filepath"
	"strings"
)

// TargetURL maps an output path such as "ns/page.md" to its root-relative
// Wiki.js URL "/ns/page". Media paths keep their extension.
func TargetURL(target string) string {
	p := filepath.ToSlash(target)
	p = strings.TrimSuffix(p, ".md")
	return path.Clean("/" + p)
}
