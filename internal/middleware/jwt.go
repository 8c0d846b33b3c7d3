package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-reservation/internal/utils"
)

// JWTAuth validates a Bearer access token and stores its subject, role and
// user name in the context under CtxUserID, CtxRole and CtxUserName. It
// must wrap every route that needs an authenticated user.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(CtxUserID, claims.Subject)
			c.Set(CtxRole, claims.Role)
			c.Set(CtxUserName, claims.UserName)
			return next(c)
		}
	}
}
