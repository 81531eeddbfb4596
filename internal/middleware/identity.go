package middleware

import (
	"context" // Store lookups
	"errors"  // Error matching

	"eduvault/internal/domain" // Importing domain models
	"eduvault/internal/store"  // Store sentinels
	"eduvault/internal/utils"  // Session cookie helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// Context keys set by ResolveIdentity
const (
	UserKey   = "user"
	ClaimsKey = "claims"
)

// SessionResolver verifies a session token and loads its identity
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.User, *utils.Claims, error)
}

// ResolveIdentity verifies the session cookie and loads the identity record on each request.
// Any failure (bad token, unset secret, unknown subject, store error) redirects to the root.
func ResolveIdentity(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, claims, err := resolver.ResolveSession(c.Request.Context(), utils.SessionToken(c))
		if err != nil {
			var tokenErr *domain.InvalidTokenError
			// Bad tokens and deleted users are expected; anything else is worth a log line
			if !errors.As(err, &tokenErr) && !errors.Is(err, store.ErrNotFound) {
				logrus.WithFields(logrus.Fields{
					"path":  c.Request.URL.Path, // Requested path
					"error": err.Error(),        // Error message
				}).Error("Failed to resolve session")
			}
			redirectHome(c)
			return
		}
		c.Set(UserKey, user)     // Store identity in context
		c.Set(ClaimsKey, claims) // Store claims in context
		c.Next()                 // Proceed to the next handler
	}
}

// CurrentUser returns the identity set by ResolveIdentity
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}
