package dokuwiki

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher decides which source paths are left out of a conversion.
type Matcher struct {
	patterns []string
}

// NewMatcher validates doublestar patterns such as "playground/**".
func NewMatcher(patterns []string) (*Matcher, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("dokuwiki: invalid exclude pattern %q", p)
		}
	}
	return &Matcher{patterns: patterns}, nil
}

// Match reports whether rel, a slash or OS separated path relative to
// data/pages or data/media, matches any pattern. A nil Matcher matches
// nothing.
func (m *Matcher) Match(rel string) bool {
	if m == nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
