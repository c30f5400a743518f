package auth

import (
	"errors"
	"fmt"
	"time"

	"place-review-platform/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// Manager signs and verifies access tokens.
// It is a pure codec: no storage access, no side effects.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("token TTL must be positive")
	}

	return &Manager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
		ttl:    cfg.TokenTTL,
	}, nil
}

// TTL reports the fixed lifetime of issued tokens.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue signs a token for the given account snapshot.
// Any mutation of the payload or expiry invalidates the signature.
func (m *Manager) Issue(now time.Time, userID int, email, role string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify parses and validates a token string at the given instant.
// Callers must treat every returned error the same way (reject); the
// error detail exists for logs only and must never reach a client.
func (m *Manager) Verify(tokenString string, now time.Time) (Claims, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30*time.Second), // clock skew tolerance
		jwt.WithExpirationRequired(),
	)

	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return Claims{}, err
	}

	if m.issuer != "" {
		iss, err := claims.GetIssuer()
		if err != nil || iss != m.issuer {
			return Claims{}, errors.New("issuer mismatch")
		}
	}
	if claims.Email == "" {
		return Claims{}, errors.New("email missing in token")
	}

	return claims, nil
}
