package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/OldStager01/scaling-advisor/internal/logger"
)

// RequestLogger writes one structured line per request once the handler
// chain has finished. Failures surface at warn or error level.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()
		req := c.Request
		path, rawQuery := req.URL.Path, req.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		entry := logger.FromContext(req.Context()).WithFields(logrus.Fields{
			"status":     status,
			"method":     req.Method,
			"path":       path,
			"latency_ms": time.Since(began).Milliseconds(),
			"ip":         c.ClientIP(),
		})
		if rawQuery != "" {
			entry = entry.WithField("query", rawQuery)
		}
		if user := GetUsername(c); user != "" {
			entry = entry.WithField("user", user)
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			entry = entry.WithField("errors", errs.String())
		}

		entry.Log(requestLevel(status), http.StatusText(status))
	}
}

func requestLevel(status int) logrus.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return logrus.ErrorLevel
	case status >= http.StatusBadRequest:
		return logrus.WarnLevel
	default:
		return logrus.DebugLevel
	}
}
