package auth

import (
	"context"
	"errors"
	"time"
)

// Account is the storage view of a user needed by the auth layer.
type Account struct {
	ID           int
	Email        string
	PasswordHash string
	Role         string
}

// UserStore is the minimal storage contract the auth layer consumes.
// Lookup is a point read with no side effects. Email matching is a
// case-sensitive exact match.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (Account, bool, error)
}

var (
	ErrNotFound           = errors.New("auth: user not found")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// Service verifies credentials and issues tokens.
type Service struct {
	users  UserStore
	tokens *Manager
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(users UserStore, tokens *Manager) *Service {
	return &Service{users: users, tokens: tokens, clock: time.Now}
}

// Session is the result of a successful sign-in. The identity fields are
// denormalized for handler convenience; the token carries the same snapshot.
type Session struct {
	Token  string
	UserID int
	Email  string
	Role   string
}

// SignIn validates a login attempt against the stored bcrypt hash and issues
// a signed token on success. Read-only apart from the storage lookup.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	acct, ok, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, ErrNotFound
	}

	if !CheckPassword(password, acct.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(s.clock().UTC(), acct.ID, acct.Email, acct.Role)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Token:  token,
		UserID: acct.ID,
		Email:  acct.Email,
		Role:   acct.Role,
	}, nil
}
