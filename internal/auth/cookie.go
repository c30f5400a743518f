package auth

import (
	"net/http"
	"time"

	"place-review-platform/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
)

// CookieName is the wire-level transport for the access token.
const CookieName = "access_token"

// CookieCodec wraps the access token in an HMAC-signed, http-only cookie.
// The JWT inside is already integrity-protected; the cookie signature exists
// so a cookie tampered with at the transport level is rejected before any
// token parsing happens.
type CookieCodec struct {
	sc     *securecookie.SecureCookie
	maxAge time.Duration
	secure bool
}

func NewCookieCodec(cfg config.CookieConfig, secure bool) (*CookieCodec, error) {
	if cfg.Secret == "" {
		return nil, securecookie.ErrMacInvalid
	}
	sc := securecookie.New([]byte(cfg.Secret), nil) // HMAC only, no encryption
	sc.MaxAge(int(cfg.MaxAge.Seconds()))
	return &CookieCodec{sc: sc, maxAge: cfg.MaxAge, secure: secure}, nil
}

// Write sets the signed login cookie on the response.
func (cc *CookieCodec) Write(c *gin.Context, token string) error {
	encoded, err := cc.sc.Encode(CookieName, token)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, encoded, int(cc.maxAge.Seconds()), "/", "", cc.secure, true)
	return nil
}

// Clear removes the login cookie. The token it carried stays valid until its
// natural expiry; the server keeps no revocation list.
func (cc *CookieCodec) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", cc.secure, true)
}

// Read extracts the token from the request cookie.
// present reports whether the cookie exists at all; a present cookie that
// fails signature verification returns present=true with an error, and
// callers must NOT fall back to other transports in that case.
func (cc *CookieCodec) Read(r *http.Request) (token string, present bool, err error) {
	ck, err := r.Cookie(CookieName)
	if err != nil {
		return "", false, nil
	}
	if err := cc.sc.Decode(CookieName, ck.Value, &token); err != nil {
		return "", true, err
	}
	return token, true, nil
}
