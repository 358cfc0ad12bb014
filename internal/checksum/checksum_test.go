package checksum

import "testing"

func TestSum_Known(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Sum([]byte("abc")); got != want {
		t.Errorf("Sum = %q, want %q", got, want)
	}
}

func TestText_IgnoresLineEndings(t *testing.T) {
	want := Text([]byte("a\nb\n"))
	for _, in := range []string{"a\r\nb\r\n", "a\rb\r"} {
		if got := Text([]byte(in)); got != want {
			t.Errorf("Text(%q) = %q, want %q", in, got, want)
		}
	}
	if Text([]byte("a\nb\n")) != Sum([]byte("a\nb\n")) {
		t.Error("Text of \\n-only input should equal Sum")
	}
}

func TestText_DiffersOnContent(t *testing.T) {
	if Text([]byte("# Page\n")) == Text([]byte("# Page\n\n")) {
		t.Error("an extra line should change the digest")
	}
}
