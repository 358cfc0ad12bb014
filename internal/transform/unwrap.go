package transform

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var listMarkerRe = regexp.MustCompile(`^[0-9]+\. `)

// UnwrapSentences joins paragraphs that were wrapped over several lines and
// then splits them again so every output line holds one sentence.
func UnwrapSentences(lines []string) []string {
	var compacted []string
	var acc string
	compacting := false

	for _, line := range lines {
		if !compacting {
			if line != "" && !strings.HasSuffix(line, ".") {
				compacting = true
				acc = line
			} else {
				compacted = append(compacted, line)
			}
			continue
		}
		if startsWithText(line) {
			acc += " " + line
			continue
		}
		compacted = append(compacted, acc, line)
		acc = ""
		compacting = false
	}
	if acc != "" {
		compacted = append(compacted, acc)
	}

	var out []string
	for _, line := range compacted {
		for {
			sentence, rest, found := strings.Cut(line, ". ")
			if !found {
				break
			}
			out = append(out, sentence+".")
			line = rest
		}
		out = append(out, line)
	}
	return out
}

// startsWithText reports whether line continues a wrapped sentence.
func startsWithText(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	if listMarkerRe.MatchString(line) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.IsLetter(r) || r == '"'
}
