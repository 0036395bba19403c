package handlers

import (
	"github.com/halkompleksi/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getUserClaims returns the JWT claims stored by the auth middleware, or nil
func getUserClaims(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get("user").(*models.JwtCustomClaims)
	return claims
}

// getUserIDFromContext returns the authenticated user's ID, or 0
func getUserIDFromContext(c echo.Context) uint {
	if claims := getUserClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}
