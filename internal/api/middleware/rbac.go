package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RBAC limits a route to the listed caller types ("user", "client-user").
// It must run after Auth.
func RBAC(allowedTypes ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			callerType, _ := c.Get(KeyUserType).(string)
			if _, ok := allowed[callerType]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "caller type not allowed")
			}
			return next(c)
		}
	}
}
