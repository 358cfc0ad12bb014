package transform

import "strings"

const frontMatterDelim = "---"

// Field is one front matter entry. Value is written verbatim.
type Field struct {
	Key   string
	Value string
}

// Metadata is an ordered set of front matter fields.
type Metadata []Field

// Title returns the text of a leading markdown heading, or name when the
// document does not start with one.
func Title(lines []string, name string) string {
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "#") {
		return name
	}
	_, title, _ := strings.Cut(lines[0], " ")
	return strings.TrimSpace(title)
}

// BuildMetadata derives the front matter for a converted document. The
// title is always double quoted so Wiki.js imports it as a string even when
// it looks like a date or a number.
func BuildMetadata(lines []string, name string) Metadata {
	return Metadata{
		{Key: "title", Value: `"` + Title(lines, name) + `"`},
	}
}

// Lines renders m as a delimited YAML front matter block.
func (m Metadata) Lines() []string {
	out := make([]string, 0, len(m)+2)
	out = append(out, frontMatterDelim)
	for _, f := range m {
		out = append(out, f.Key+": "+f.Value)
	}
	return append(out, frontMatterDelim)
}

// PrependMetadata returns lines preceded by the front matter block of m.
func PrependMetadata(lines []string, m Metadata) []string {
	head := m.Lines()
	out := make([]string, 0, len(head)+len(lines))
	out = append(out, head...)
	return append(out, lines...)
}
