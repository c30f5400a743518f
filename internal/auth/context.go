package auth

import (
	"context"
	"errors"
)

// Identity is the per-request authenticated caller, re-derived from storage
// by the auth middleware. Downstream handlers may trust it was built from a
// cryptographically valid, unexpired token AND a currently-existing account.
type Identity struct {
	UserID int
	Email  string
	Role   string
}

type ctxKey int

const ctxIdentity ctxKey = iota

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxIdentity, id)
}

var ErrNoIdentity = errors.New("no identity in context")

// IdentityFrom returns the caller identity attached by the auth middleware.
func IdentityFrom(ctx context.Context) (Identity, error) {
	v := ctx.Value(ctxIdentity)
	if id, ok := v.(Identity); ok && id.UserID != 0 {
		return id, nil
	}
	return Identity{}, ErrNoIdentity
}
