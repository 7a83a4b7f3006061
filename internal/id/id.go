// Package id handles the 32-digit hex GUIDs that identify book objects.
package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Length is the number of hex digits in a GUID.
const Length = 32

// shortLength is the prefix shown by Short.
const shortLength = 8

// New returns a random GUID in book notation: 32 lowercase hex digits, no dashes.
func New() string {
	u := uuid.New()
	return strings.ReplaceAll(u.String(), "-", "")
}

// Valid reports whether s is a GUID in book notation.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// Normalize accepts book notation or dashed UUID notation, in any case, and
// returns book notation.
func Normalize(s string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid guid %q: %w", s, err)
	}
	return strings.ReplaceAll(u.String(), "-", ""), nil
}

// Short returns the first eight digits of a GUID for display.
// Shorter strings are returned unchanged.
func Short(s string) string {
	if len(s) <= shortLength {
		return s
	}
	return s[:shortLength]
}
