package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"eduvault/internal/domain" // Error taxonomy

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// respondError maps an error to a status and a client-safe message.
// Upstream and unexpected details are logged, never returned.
func respondError(c *gin.Context, op string, err error) {
	var (
		validation *domain.ValidationError
		conflict   *domain.ConflictError
		configErr  *domain.ConfigurationError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Message})
	case errors.As(err, &configErr):
		logrus.WithFields(logrus.Fields{"op": op, "setting": configErr.Setting}).Error("Missing configuration")
		c.JSON(http.StatusInternalServerError, gin.H{"error": configErr.Message})
	default:
		// Upstream (store / storage provider) and anything unexpected
		logrus.WithFields(logrus.Fields{
			"op":    op,          // Failing operation
			"error": err.Error(), // Error message
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}
