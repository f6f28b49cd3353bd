package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	mw "github.com/idesu/yet-another-blog-engine/internal/middleware"
	"github.com/idesu/yet-another-blog-engine/internal/models"
	"github.com/idesu/yet-another-blog-engine/internal/repositories"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler handles signup, login and logout. Sessions are signed JWTs in
// a cookie; API clients may send the same token as a Bearer header.
type AuthHandler struct {
	userRepository  repositories.UserRepository
	jwtSecret       string
	sessionLifetime time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, jwtSecret string, sessionLifetime time.Duration) *AuthHandler {
	return &AuthHandler{
		userRepository:  userRepo,
		jwtSecret:       jwtSecret,
		sessionLifetime: sessionLifetime,
	}
}

// RegisterAuthRoutes registers the /auth/ routes.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup/", h.Signup)
	g.GET("/login/", h.GetLoginForm)
	g.POST("/login/", h.Login)
	g.GET("/logout/", h.Logout)
}

// Signup registers a local account and redirects to the login page.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			return validationFailed(c, errors.New("username or email already taken"))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Redirect(http.StatusFound, mw.LoginPath)
}

// GetLoginForm exists so redirected browsers land on a real page.
func (h *AuthHandler) GetLoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"next": c.QueryParam("next")},
	})
}

// Login verifies credentials, sets the session cookie and redirects to the
// next target (or the global feed).
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	user, err := h.userRepository.GetUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	token, expires, err := h.IssueToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.SetCookie(&http.Cookie{
		Name:     mw.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
	})

	next := c.QueryParam("next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/"
	}
	return c.Redirect(http.StatusFound, next)
}

// Logout drops the session cookie and redirects to the global feed.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     mw.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, "/")
}

// IssueToken signs a session JWT for the user.
func (h *AuthHandler) IssueToken(user *models.User) (string, time.Time, error) {
	expires := time.Now().Add(h.sessionLifetime)
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	return signed, expires, err
}
