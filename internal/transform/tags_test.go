package transform

import (
	"slices"
	"testing"
)

func TestStripStaleTags(t *testing.T) {
	in := []string{
		`\<sortable\>Header\</sortable\>`,
		`\<sortable\>`,
		"untouched <sortable>",
		"",
	}
	want := []string{"Header", "", "untouched <sortable>", ""}
	if got := StripStaleTags(in); !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}
