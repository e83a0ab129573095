package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oxfordpsn/school-portal/internal/api/metrics"
)

// RBAC restricts a route to principals holding one of the allowed roles.
// Roles arrive here already normalized: signup and token minting are the
// only points where casing is fixed, so the comparison is exact.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}
