package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

func New(email, passwordHash string, isAdmin bool) User {
	return User{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now().UTC(),
	}
}

// Emails are stored trimmed and lower-cased so the unique index catches case variants.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
