package httpiface

import (
	"crypto/subtle"
	"net/http"

	"coffee-chat/domain/chat"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// apiKeyAuth requires the shared secret in X-API-Key on every request it
// guards. Comparison is constant-time.
func apiKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-API-Key")
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			logrus.WithFields(logrus.Fields{
				"path":      c.Request.URL.Path,
				"client_ip": c.ClientIP(),
			}).Warn("Rejected request with invalid API key")
			c.AbortWithStatusJSON(http.StatusUnauthorized, chat.ErrorResponse{
				Status:  "error",
				Message: "Invalid or missing API key",
			})
			return
		}
		c.Next()
	}
}
