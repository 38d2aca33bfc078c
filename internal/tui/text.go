package tui

import "strings"

// Sanitize strips control characters from user-supplied text before it is
// rendered. Filenames, extracted field values, and server error messages
// all pass through here; terminal escape sequences in any of them must
// never reach the screen.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return -1
		}
		return r
	}, s)
}
