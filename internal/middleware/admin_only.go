package middleware

import (
	"net/http"

	"github.com/halkompleksi/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// AdminOnly rejects requests whose JWT claims do not carry the admin role.
// Must run after JWTAuthMiddleware.
func AdminOnly() echo.MiddlewareFunc {
	return RequireRole(models.RoleAdmin)
}

// RequireRole rejects requests whose JWT claims carry none of the given roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*models.JwtCustomClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}
