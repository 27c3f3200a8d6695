package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxFileNameRunes = 100

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName makes an uploaded file name safe to embed in a storage key.
// Separators become underscores, control characters are dropped and long names
// are shortened while keeping the extension. Traversal attempts are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if cleaned == "" {
		return "", ErrInvalidFileName
	}

	if utf8.RuneCountInString(cleaned) <= maxFileNameRunes {
		return cleaned, nil
	}
	ext := path.Ext(cleaned)
	if utf8.RuneCountInString(ext) >= maxFileNameRunes {
		ext = ""
	}
	stem := []rune(strings.TrimSuffix(cleaned, ext))
	return string(stem[:maxFileNameRunes-utf8.RuneCountInString(ext)]) + ext, nil
}
