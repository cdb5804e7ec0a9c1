package textnorm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{name: "empty", in: "", out: ""},
		{name: "trims and lowercases", in: "  Hello World  ", out: "hello world"},
		{name: "collapses whitespace", in: "  hello   world\t\n", out: "hello world"},
		{name: "strips accents", in: "Café crème", out: "cafe creme"},
		{name: "keeps punctuation", in: "Hello There!!", out: "hello there!!"},
		{name: "only non-ascii", in: "日本語 🙂", out: ""},
		{name: "drops emoji between words", in: "good 🙂 morning", out: "good morning"},
		{name: "compatibility forms", in: "ﬁle №5", out: "file no5"},
		{name: "black-letter capital", in: "ℌello", out: "hello"},
		{name: "non-breaking space", in: "a  b", out: "a b"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.out, Normalize(tc.in))
		})
	}
}

func TestNormalizeAccentsMatchPlain(t *testing.T) {
	require.Equal(t, Normalize("cafe"), Normalize("Café"))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Hello There!!",
		"Ünïcödé  \t text\n",
		"ℌ ℍ ℑ",
		"日本語",
		"Straße",
		"x y",
	}
	for _, in := range inputs {
		once := Normalize(in)
		require.Equal(t, once, Normalize(once), "input %q", in)
	}
}
