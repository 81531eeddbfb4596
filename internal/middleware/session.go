package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // Path matching

	"eduvault/internal/utils" // Session cookie helpers

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireSession is the edge gate for every path under prefix, routed or not. It only checks
// that a session cookie is present and redirects to the site root otherwise; signature and
// expiry are checked by ResolveIdentity where the claims are used.
func RequireSession(prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !underPrefix(c.Request.URL.Path, prefix) {
			c.Next() // Not protected
			return
		}
		// Check if the session cookie is present
		if utils.SessionToken(c) == "" {
			redirectHome(c) // Unauthenticated
			return
		}
		c.Next() // Proceed to the next handler
	}
}

// underPrefix matches prefix itself and anything below it, but not "/dashboardx"
func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// redirectHome sends the client back to the site root and stops the chain
func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
	c.Abort()
}
