package handlers

import (
	"strconv"

	"github.com/idesu/yet-another-blog-engine/internal/models"
	"github.com/idesu/yet-another-blog-engine/internal/pagination"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated user's ID, 0 when anonymous.
func getUserIDFromContext(c echo.Context) uint {
	if claims, ok := c.Get("user").(*models.JwtCustomClaims); ok {
		return claims.UserID
	}
	return 0
}

// getUsernameFromContext returns the authenticated username, "" when anonymous.
func getUsernameFromContext(c echo.Context) string {
	if claims, ok := c.Get("user").(*models.JwtCustomClaims); ok {
		return claims.Username
	}
	return ""
}

// pageSpec reads the ?page query parameter, defaulting to the first page.
func pageSpec(c echo.Context) pagination.Spec {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	return pagination.NewSpec(page)
}
