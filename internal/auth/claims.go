package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the only supported JWT claims shape for this service.
// The token is a hint, not the source of truth: guards re-resolve the
// account by Email from storage on every request, so a stale Role or
// UserID in an old token never wins over current storage state.
type Claims struct {
	jwt.RegisteredClaims

	UserID int    `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
