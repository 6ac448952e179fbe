package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"productposts/internal/importer"

	"github.com/gin-gonic/gin"
)

const AdminTokenHeader = "X-Admin-Token"

// AdminToken guards admin routes. An empty token disables the check.
func AdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		if subtle.ConstantTimeCompare([]byte(requestToken(c)), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  importer.StatusNoPrivs,
				"notice":  importer.Notice(importer.StatusNoPrivs),
				"message": importer.Message(importer.StatusNoPrivs),
			})
			return
		}
		c.Next()
	}
}

func requestToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		if bearer, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(bearer)
		}
	}
	return strings.TrimSpace(c.GetHeader(AdminTokenHeader))
}
