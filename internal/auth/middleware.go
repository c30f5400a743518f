package auth

import (
	"net/http"
	"strings"
	"time"

	"place-review-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// RequireUser verifies an access token and injects the caller identity into
// the request context.
//
// Token extraction order is a fixed precedence, not a fallback chain: the
// signed access_token cookie wins whenever it is present, even if it fails
// verification; the Authorization header is consulted only when no cookie
// exists at all.
//
// Every failure mode (no token, bad signature, expired, malformed, deleted
// account, storage error) collapses to the same 401 so probing clients learn
// nothing about which check failed.
func RequireUser(tokens *Manager, cookies *CookieCodec, users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := extractToken(c, cookies)
		if !ok {
			unauthorized(c)
			return
		}

		claims, err := tokens.Verify(tok, time.Now())
		if err != nil {
			logger.FromGin(c).Debug("token rejected", "err", err)
			unauthorized(c)
			return
		}

		// Re-resolve the account so the attached identity reflects storage
		// state at request time, not token issuance time. A deleted account
		// invalidates an otherwise-valid token here.
		acct, found, err := users.FindUserByEmail(c.Request.Context(), claims.Email)
		if err != nil {
			logger.FromGin(c).Warn("auth lookup failed", "err", err)
			unauthorized(c)
			return
		}
		if !found {
			unauthorized(c)
			return
		}

		id := Identity{UserID: acct.ID, Email: acct.Email, Role: acct.Role}
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))

		// Also store on gin context for handler convenience.
		c.Set("user_id", id.UserID)
		c.Set("role", id.Role)

		c.Next()
	}
}

func extractToken(c *gin.Context, cookies *CookieCodec) (string, bool) {
	tok, present, err := cookies.Read(c.Request)
	if present {
		// Cookie precedence is absolute: a broken cookie is a rejection,
		// never a fallthrough to the header.
		if err != nil {
			return "", false
		}
		return tok, true
	}

	raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
	if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
		return "", false
	}
	return strings.TrimPrefix(raw, bearerPrefix), true
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}
