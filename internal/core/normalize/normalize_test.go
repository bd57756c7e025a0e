package normalize

import (
	"testing"
)

func TestNormalize_Table(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		mode Mode
		in   string
		out  string
	}{
		{
			name: "identity",
			mode: Line,
			in:   "Eleven",
			out:  "Eleven",
		},
		{
			name: "case and punctuation kept",
			mode: Line,
			in:   "Dr. Martin Brenner!",
			out:  "Dr. Martin Brenner!",
		},
		{
			name: "invalid utf8 dropped",
			mode: Line,
			in:   string([]byte{0xff, 'H', 'a', 'w', 0x80, 'k', 'i', 'n', 's'}),
			out:  "Hawkins",
		},
		{
			name: "nfc composes accents",
			mode: Line,
			in:   "Cafe\u0301",
			out:  "Caf\u00e9",
		},
		{
			name: "zero widths removed",
			mode: Line,
			in:   "Up\u200Bside\uFEFF Down",
			out:  "Upside Down",
		},
		{
			name: "line mode folds newlines",
			mode: Line,
			in:   "  The\t\tUpside\nDown  ",
			out:  "The Upside Down",
		},
		{
			name: "block mode keeps paragraph breaks",
			mode: Block,
			in:   "First  line\n\n\nSecond\tline \n",
			out:  "First line\nSecond line",
		},
		{
			name: "controls dropped",
			mode: Block,
			in:   "a\x00b\x07c\u0085d",
			out:  "abcd",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := n.Normalize(tc.in, tc.mode)
			if got != tc.out {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.out)
			}
			if again := n.Normalize(got, tc.mode); again != got {
				t.Fatalf("Normalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestSanitize_CleanInputUnchanged(t *testing.T) {
	in := "Mike Wheeler\n\tParty leader"
	if got := Sanitize(in); got != in {
		t.Fatalf("Sanitize(%q) = %q", in, got)
	}
}

func TestCollapseSpaces(t *testing.T) {
	in := " \t a \n b   c \r\n "
	want := "a\nb c"
	got := collapseSpaces(in)
	if got != want {
		t.Fatalf("collapseSpaces(%q) = %q, want %q", in, got, want)
	}
}
