package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/idesu/yet-another-blog-engine/internal/models"
	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// LoginPath is where unauthenticated requests to protected routes are sent.
const LoginPath = "/auth/login/"

// WithUser resolves the session token (cookie or Bearer header) and, when
// valid, stores the claims in the request context. Anonymous requests pass
// through untouched, so public pages can still personalize when a session
// exists.
func WithUser(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := extractToken(c)
			if tokenString == "" {
				return next(c)
			}

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})
			if err == nil && token.Valid {
				c.Set("user", claims)
			}

			return next(c)
		}
	}
}

// RequireUser guards auth-only routes. Unauthenticated requests are
// redirected to the login page with the original path in the next parameter.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get("user").(*models.JwtCustomClaims); !ok {
				// next keeps its slashes literal, e.g. /auth/login/?next=/new/
				target := LoginPath + "?next=" + c.Request().URL.RequestURI()
				return c.Redirect(http.StatusFound, target)
			}
			return next(c)
		}
	}
}

func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
