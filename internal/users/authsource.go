package users

import (
	"context"

	"place-review-platform/internal/auth"
)

// AuthSource adapts the user repository to the minimal account lookup the
// auth layer consumes.
type AuthSource struct {
	repo Repository
}

func NewAuthSource(repo Repository) AuthSource {
	return AuthSource{repo: repo}
}

func (s AuthSource) FindUserByEmail(ctx context.Context, email string) (auth.Account, bool, error) {
	u, found, err := s.repo.FindByEmail(ctx, email)
	if err != nil || !found {
		return auth.Account{}, false, err
	}
	return auth.Account{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}, true, nil
}
