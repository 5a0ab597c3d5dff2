package server

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// requestLogger logs one line per request with a propagated or generated
// request id.
func requestLogger(logger zerolog.Logger) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		path := string(c.Path())

		requestID := string(c.Request.Header.Peek(requestIDHeader))
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Response.Header.Set(requestIDHeader, requestID)

		c.Next(ctx)

		if path == "/healthz" {
			return
		}
		status := c.Response.StatusCode()
		evt := logger.Info()
		if status >= 500 {
			evt = logger.Error()
		} else if status >= 400 {
			evt = logger.Warn()
		}
		evt.
			Str("request_id", requestID).
			Str("method", string(c.Method())).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	}
}

// recovery converts panics into 500 responses instead of dropped connections.
func recovery(logger zerolog.Logger) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Str("request_id", string(c.Response.Header.Peek(requestIDHeader))).
					Str("path", string(c.Path())).
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(debug.Stack())).
					Msg("panic recovered")
				c.JSON(consts.StatusInternalServerError, ErrorBody{Error: "internal server error"})
				c.Abort()
			}
		}()
		c.Next(ctx)
	}
}

// cors allows the browser front end to call the API from any origin. This is
// a demo service; there is no credentialed state to protect.
func cors() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		c.Response.Header.Set("Access-Control-Allow-Origin", "*")
		c.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		c.Response.Header.Set("Access-Control-Expose-Headers", "X-Request-ID")
		if string(c.Method()) == "OPTIONS" {
			c.AbortWithStatus(consts.StatusNoContent)
			return
		}
		c.Next(ctx)
	}
}
