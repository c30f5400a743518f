package auth

import (
	"errors"
	"net/http"

	"place-review-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers owns the login/logout surface. Keep these thin: parse input, call
// the service, map sentinel errors to status codes.
type Handlers struct {
	Auth    *Service
	Cookies *CookieCodec
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and establishes the signed login cookie. The
// unknown-email and wrong-password cases are deliberately distinguishable
// here (404 vs 401); only the guard path collapses failures.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	session, err := h.Auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, ErrInvalidCredentials):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		default:
			logger.FromGin(c).Error("sign-in failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	if err := h.Cookies.Write(c, session.Token); err != nil {
		logger.FromGin(c).Error("cookie write failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": session.UserID, "email": session.Email})
}

// Profile echoes the identity the guard attached. Kept for clients that only
// need to know who they are without a storage round trip.
func (h Handlers) Profile(c *gin.Context) {
	id, err := IdentityFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": id.UserID, "email": id.Email, "role": id.Role})
}

// Logout clears the login cookie. The token itself stays valid until expiry;
// there is no server-side revocation list.
func (h Handlers) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
