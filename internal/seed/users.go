package seed

import (
	"context"
	"errors"
	"fmt"

	"subtrack/internal/auth"
	"subtrack/internal/store"
	"subtrack/pkg/types"
)

// SeedAdminUser creates an initial login. Seeding the same email twice
// is not an error.
func SeedAdminUser(ctx context.Context, repo *store.UserRepository, name, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	user := &types.User{
		Name:         name,
		Email:        types.NormalizeEmail(email),
		PasswordHash: hash,
	}

	err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, types.ErrDuplicateEmail) {
			return nil
		}
		return fmt.Errorf("create seed user: %w", err)
	}

	return nil
}
