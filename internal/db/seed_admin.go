package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/geocoder89/fittrack/internal/domain/user"
)

type adminCreator interface {
	Create(ctx context.Context, u user.User) (user.User, error)
}

type passwordHasher interface {
	Hash(plain string) (string, error)
}

// EnsureAdminUser creates the configured administrator once. An existing
// account with that email is left untouched.
func EnsureAdminUser(ctx context.Context, users adminCreator, hasher passwordHasher, email, password string, log *slog.Logger) error {
	if email == "" || password == "" {
		return nil
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	u, err := users.Create(ctx, user.New(email, hash, true))
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			log.DebugContext(ctx, "admin user already present", "email", user.NormalizeEmail(email))
			return nil
		}
		return err
	}

	log.InfoContext(ctx, "admin user created", "user_id", u.ID)

	return nil
}
