package utils

import "github.com/google/uuid"

// IsUUID reports whether s is a canonical UUID string.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}

	_, err := uuid.Parse(s)
	return err == nil
}

// CanonicalUUID returns s in lower-case canonical form, or false if s is not
// a canonical UUID string.
func CanonicalUUID(s string) (string, bool) {
	if !IsUUID(s) {
		return "", false
	}

	return uuid.MustParse(s).String(), true
}
