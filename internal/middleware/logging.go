package middleware

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// StatusRecorder counts responses by status code.
type StatusRecorder interface {
	RecordHTTPStatus(status int)
}

// RequestLogger assigns a request id (reusing X-Request-ID when the client
// sent one), echoes it in the response, and logs one JSON line per request
// once the handler has finished. rec may be nil.
func RequestLogger(log *slog.Logger, rec StatusRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Set(CtxRequestID, rid)
			c.Response().Header().Set(echo.HeaderXRequestID, rid)

			err := next(c)
			if err != nil {
				// Let echo write the error response so the status is final.
				c.Error(err)
			}

			status := c.Response().Status
			if rec != nil {
				rec.RecordHTTPStatus(status)
			}
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}
			attrs := []any{
				"request_id", rid,
				"method", req.Method,
				"path", c.Path(),
				"uri", req.RequestURI,
				"status", status,
				"latency_ms", time.Since(start).Milliseconds(),
				"user_id", subject(c),
				"remote_ip", c.RealIP(),
			}
			if err != nil {
				attrs = append(attrs, "error", err.Error())
			}
			log.Log(req.Context(), level, "http request", attrs...)
			return nil
		}
	}
}
