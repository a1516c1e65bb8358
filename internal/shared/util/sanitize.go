package util

import (
	"errors"
	"strings"
	"unicode"
)

const maxFileNameRunes = 200

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens path separators, drops control characters and
// rejects traversal patterns. Long names keep their trailing runes so the
// extension survives.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, strings.TrimSpace(name))
	if s == "" {
		return "", ErrInvalidFileName
	}
	if r := []rune(s); len(r) > maxFileNameRunes {
		s = string(r[len(r)-maxFileNameRunes:])
	}
	return s, nil
}
