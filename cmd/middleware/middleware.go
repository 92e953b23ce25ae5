package middleware

import (
	"time"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"reunion/internal/dto"
)

func LoggingMiddleware() func(*ginext.Context) {
	return func(c *ginext.Context) {
		start := time.Now()
		c.Next()
		zlog.Logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request handled")
	}
}

// AdminAuth gates the dashboard routes behind a shared token. With an
// empty configured token the admin surface is closed entirely.
func AdminAuth(token string) func(*ginext.Context) {
	return func(c *ginext.Context) {
		if token == "" || c.GetHeader("X-Admin-Token") != token {
			dto.UnauthorizedError(c)
			return
		}
		c.Next()
	}
}
