package utils

import (
	"net/http" // SameSite modes

	"github.com/gin-gonic/gin" // Gin web framework
)

// SessionCookie is the name of the cookie carrying the session token
const SessionCookie = "auth_token"

// SetSessionCookie attaches the token as an HTTP-only, SameSite=Lax cookie scoped to the whole site.
// secure should be true outside local development.
func SetSessionCookie(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(SessionTTL.Seconds()), "/", "", secure, true)
}

// SessionToken returns the session cookie value, or "" when absent
func SessionToken(c *gin.Context) string {
	token, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return token
}
