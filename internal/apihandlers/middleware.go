package apihandlers

import (
	"promptpilot/internal/auth"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const identityKey = "identity"

// RequireAuth rejects requests the authenticator cannot resolve and stores
// the caller's identity on both the gin and the request context.
func RequireAuth(authenticator auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := authenticator.Authenticate(c.Request)
		if err != nil {
			log.WithField("route", c.FullPath()).Debugf("Rejected request: %v", err)
			Unauthorized(c)
			return
		}
		c.Set(identityKey, id)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// IdentityFrom returns the identity set by RequireAuth.
func IdentityFrom(c *gin.Context) (auth.Identity, error) {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(auth.Identity); ok && id.UserID != "" {
			return id, nil
		}
	}
	return auth.Identity{}, auth.ErrNoIdentity
}
