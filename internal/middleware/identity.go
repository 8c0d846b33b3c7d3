package middleware

import "github.com/labstack/echo/v4"

// Context keys set by JWTAuth and RequestLogger.
const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxUserName  = "user_name"
	CtxRequestID = "request_id"
)

// subject returns the authenticated user id, or "anon" for requests that
// did not pass through JWTAuth.
func subject(c echo.Context) string {
	if s, ok := c.Get(CtxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}
