package transform

import (
	"slices"
	"strings"
)

// Severity class markers understood by Wiki.js block quotes.
const (
	KindInfo    = "{.is-info}"
	KindWarning = "{.is-warning}"
	KindDanger  = "{.is-danger}"
)

var wrapOpeners = []string{"<WRAP", `\<WRAP`}

var wrapClosers = []string{"</WRAP>", `\</WRAP\>`}

// kindRules is evaluated in order and the first rule with a matching word
// wins. "danger" appears twice; the second entry is never reached for it.
var kindRules = []struct {
	words []string
	kind  string
}{
	{[]string{"info", "notice"}, KindInfo},
	{[]string{"important", "warning", "caution"}, KindWarning},
	{[]string{"alert", "danger"}, KindDanger},
	{[]string{"tip", "help", "todo"}, KindDanger},
	{[]string{"safety", "danger"}, KindDanger},
}

// WrapKind classifies the words of a WRAP tag header, e.g. "<WRAP round
// important", into a severity class marker. Unknown words yield "".
func WrapKind(header string) string {
	words := strings.Split(strings.TrimSuffix(header, `\`), " ")
	for _, rule := range kindRules {
		for _, w := range rule.words {
			if slices.Contains(words, w) {
				return rule.kind
			}
		}
	}
	return ""
}

// RewriteWraps turns <WRAP kind>...</WRAP> blocks into markdown block quotes
// whose closing tag is replaced by the severity class marker. Blocks do not
// nest: a new opener replaces the active kind, and an unclosed block quotes
// the rest of the document.
func RewriteWraps(lines []string) []string {
	out := make([]string, len(lines))
	kind := KindInfo
	wrapping := false
	for i, line := range lines {
		if isWrapOpener(line) {
			header, rest, _ := strings.Cut(line, ">")
			kind = WrapKind(header)
			line = rest
			wrapping = true
		}
		out[i] = line
		if wrapping {
			out[i] = "> " + line
		}
		for _, closer := range wrapClosers {
			if strings.Contains(line, closer) {
				out[i] = strings.ReplaceAll(out[i], closer, kind)
				wrapping = false
			}
		}
	}
	return out
}

func isWrapOpener(line string) bool {
	for _, opener := range wrapOpeners {
		if strings.HasPrefix(line, opener) {
			return true
		}
	}
	return false
}
