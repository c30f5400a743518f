package audit

import (
	"log/slog"

	"place-review-platform/internal/auth"
	"place-review-platform/internal/throttle"

	"github.com/gin-gonic/gin"
)

// AdminAction records an audit event after the handler completes
// successfully. Register it after the auth and role guards so the actor
// identity is always present; failed requests leave no event.
func AdminAction(svc *Service, log *slog.Logger, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() >= 400 {
			return
		}
		actor, err := auth.IdentityFrom(c.Request.Context())
		if err != nil {
			return
		}

		e := Event{
			Action:      action,
			ActorUserID: actor.UserID,
			ActorRole:   actor.Role,
			IPAddress:   throttle.ClientKey(c.Request),
			Path:        c.Request.URL.Path,
		}
		if len(c.Params) > 0 {
			e.TargetID = c.Params[0].Value
		}
		if err := svc.Append(c.Request.Context(), e); err != nil {
			log.Warn("audit append failed", "action", action, "err", err)
		}
	}
}
