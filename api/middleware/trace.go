package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/OldStager01/scaling-advisor/internal/logger"
)

const (
	TraceIDHeader = "X-Trace-ID"
	maxTraceIDLen = 128
)

// TraceID keeps a caller-supplied trace id when it is well formed and mints
// one otherwise. The id is echoed in the response and carried on the request
// context, where logger.FromContext picks it up.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(TraceIDHeader)
		if !wellFormedTraceID(id) {
			id = uuid.NewString()
		}

		c.Header(TraceIDHeader, id)
		c.Request = c.Request.WithContext(logger.WithTraceID(c.Request.Context(), id))
		c.Next()
	}
}

func wellFormedTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLen {
		return false
	}
	return !strings.ContainsFunc(id, func(r rune) bool {
		return !(r == '-' || r == '_' || r == '.' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	})
}
