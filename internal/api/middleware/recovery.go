package middleware

import (
	"net/http"
	"net/http/httputil"
	"runtime/debug"
	"strings"

	"productposts/internal/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns panics into a JSON 500. gin itself drops panics caused by a
// dead client connection before the handler runs.
func Recovery(logger *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		if gin.IsDebugging() {
			logger.Error("panic recovered:\n%s\n%v\n%s", maskedRequestDump(c.Request), recovered, debug.Stack())
		} else {
			logger.Error("panic recovered on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}

func maskedRequestDump(r *http.Request) string {
	dump, _ := httputil.DumpRequest(r, false)
	lines := strings.Split(string(dump), "\r\n")
	for i, line := range lines {
		key, _, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(key, "Authorization") || strings.EqualFold(key, AdminTokenHeader) {
			lines[i] = key + ": *"
		}
	}
	return strings.Join(lines, "\r\n")
}
