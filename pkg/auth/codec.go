package auth

import (
	"net/url"
	"strings"
)

const upperhex = "0123456789ABCDEF"

// shouldEscape matches the set left alone by JavaScript's encodeURIComponent:
// ASCII letters, digits and - _ . ! ~ * ' ( ).
func shouldEscape(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return false
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return false
	}
	return true
}

// EncodeMessage percent-encodes every byte of s outside the unreserved set.
// A space becomes %20, never '+'.
func EncodeMessage(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if shouldEscape(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// DecodeMessage reverses EncodeMessage. '+' is kept literally.
func DecodeMessage(s string) (string, error) {
	return url.PathUnescape(s)
}
