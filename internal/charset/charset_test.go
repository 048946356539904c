package charset_test

import (
	"bytes"
	"testing"

	"booking_reviews/internal/charset"
)

func deref(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"plain", "Great stay", "Great stay"},
		{"emoji stripped", "Great stay 😀", "Great stay"},
		{"emoji inside", "nice😀😀 room", "nice room"},
		{"flags", "from 🇫🇷 France", "from  France"},
		{"dingbat", "clean ✔ quiet", "clean  quiet"},
		{"line breaks collapse", "line one\r\n\r\nline two\nthree", "line one line two three"},
		{"break around emoji", "a\n😀\nb", "a b"},
		{"trim", "  \t padded \n", "padded"},
		{"latin1 kept", "Café à côté", "Café à côté"},
		{"cp1252 extras kept", "€5 “quoted” – dash", "€5 “quoted” – dash"},
		{"polish substituted", "Łódź", "?ód?"},
		{"cyrillic substituted", "Привет", "??????"},
		{"cjk stripped", "ok 日本 ok", "ok  ok"},
		{"invalid utf8 dropped", "a\xffb", "ab"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := charset.Sanitize(tc.in)
			if deref(got) != tc.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, deref(got), tc.want)
			}
			if !charset.Valid(*got) {
				t.Fatalf("Sanitize(%q) left runes outside the repertoire: %q", tc.in, *got)
			}
		})
	}
}

func TestSanitize_NilResults(t *testing.T) {
	for _, in := range []string{"", "   ", "\r\n", "😀🚀", " 🇫🇷 \n"} {
		if got := charset.Sanitize(in); got != nil {
			t.Fatalf("Sanitize(%q) = %q, want nil", in, *got)
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	b := charset.Encode("café€")
	want := []byte{'c', 'a', 'f', 0xE9, 0x80}
	if !bytes.Equal(b, want) {
		t.Fatalf("Encode = % x, want % x", b, want)
	}
	if got := charset.Decode(b); got != "café€" {
		t.Fatalf("Decode = %q", got)
	}
}

func TestEncode_FallbackDropsWideRunes(t *testing.T) {
	if _, err := charset.EncodeStrict("a日b"); err == nil {
		t.Fatalf("EncodeStrict should reject runes outside the repertoire")
	}
	if got := charset.Encode("a日b"); !bytes.Equal(got, []byte("ab")) {
		t.Fatalf("Encode fallback = %q, want %q", got, "ab")
	}
}

func TestEncodeReplacing(t *testing.T) {
	got := charset.EncodeReplacing("Ana😀é")
	want := []byte{'A', 'n', 'a', '?', 0xE9}
	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeReplacing = % x, want % x", got, want)
	}
}
