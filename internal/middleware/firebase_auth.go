package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// FirebaseAuthMiddleware verifies a Firebase ID token from the Authorization
// header and stores the verified token and its UID in the context. Guards the
// firebase-login exchange, where the local JWT is not issued yet.
func FirebaseAuthMiddleware(authClient *auth.Client) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			token, err := authClient.VerifyIDToken(c.Request().Context(), parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
			}

			c.Set("firebaseToken", token)
			c.Set("firebaseUID", token.UID)

			return next(c)
		}
	}
}
