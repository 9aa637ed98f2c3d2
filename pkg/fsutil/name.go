package fsutil

import (
	"strings"
	"unicode"
)

// SafeName turns an episode title into a file name stem. Path separators and
// characters rejected by common filesystems become '_', control characters are
// dropped.
func SafeName(title string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	s = strings.Trim(s, ". ")
	if s == "" {
		return "transcript"
	}
	return s
}
