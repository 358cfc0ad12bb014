package transform

import "strings"

// staleTags are escaped plugin tags pandoc leaves behind that Wiki.js has
// no use for.
var staleTags = strings.NewReplacer(
	`\<sortable\>`, "",
	`\</sortable\>`, "",
)

// StripStaleTags removes leftover escaped <sortable> tags from every line.
func StripStaleTags(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = staleTags.Replace(line)
	}
	return out
}
