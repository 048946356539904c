// Package charset confines text to the Windows-1252 repertoire the review store
// is declared with. Everything written to the store passes through here.
package charset

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Placeholder replaces any rune that has no Windows-1252 byte.
const Placeholder = '?'

var cp1252 = charmap.Windows1252

// decorative ranges are dropped outright instead of being replaced.
var decorative = [...]struct{ lo, hi rune }{
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F300, 0x1F5FF}, // symbols & pictographs
	{0x1F680, 0x1F6FF}, // transport & map
	{0x1F1E0, 0x1F1FF}, // flags
	{0x2702, 0x27B0},   // dingbats
	{0x24C2, 0x1F251},  // enclosed characters and everything up to the pictographs
}

func isDecorative(r rune) bool {
	for _, rg := range decorative {
		if r >= rg.lo && r <= rg.hi {
			return true
		}
	}
	return false
}

// Sanitize returns text reduced to the store's repertoire, or nil when nothing
// printable is left. Decorative symbols are removed, runs of CR/LF become a single
// space, unrepresentable runes become Placeholder and the result is trimmed.
func Sanitize(text string) *string {
	if text == "" {
		return nil
	}
	var b strings.Builder
	b.Grow(len(text))
	inBreak := false
	for _, r := range text {
		if isDecorative(r) {
			continue
		}
		if r == '\r' || r == '\n' {
			if !inBreak {
				b.WriteByte(' ')
				inBreak = true
			}
			continue
		}
		inBreak = false
		if _, ok := cp1252.EncodeRune(r); !ok {
			r = Placeholder
		}
		b.WriteRune(r)
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return nil
	}
	return &out
}

// EncodeStrict converts s to Windows-1252 bytes and fails on any rune outside
// the repertoire.
func EncodeStrict(s string) ([]byte, error) {
	return cp1252.NewEncoder().Bytes([]byte(s))
}

// Encode converts s to Windows-1252 bytes. If the encoder rejects the input it
// falls back to keeping only runes below U+0100, one byte each.
func Encode(s string) []byte {
	if b, err := EncodeStrict(s); err == nil {
		return b
	}
	return latin1(s)
}

func latin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 0x100 {
			out = append(out, byte(r))
		}
	}
	return out
}

// Decode turns stored Windows-1252 bytes back into a Go string.
func Decode(b []byte) string {
	s, err := cp1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// Valid reports whether every rune of s has a Windows-1252 byte.
func Valid(s string) bool {
	for _, r := range s {
		if _, ok := cp1252.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}

// EncodeReplacing converts s to Windows-1252 bytes, writing Placeholder for every
// rune outside the repertoire. Nothing is stripped, so the byte count equals the
// rune count.
func EncodeReplacing(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := cp1252.EncodeRune(r)
		if !ok {
			b = Placeholder
		}
		out = append(out, b)
	}
	return out
}
