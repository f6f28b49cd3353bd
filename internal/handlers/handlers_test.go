package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/idesu/yet-another-blog-engine/internal/cache"
	"github.com/idesu/yet-another-blog-engine/internal/handlers"
	"github.com/idesu/yet-another-blog-engine/internal/models"
	"github.com/idesu/yet-another-blog-engine/internal/repositories"
	"github.com/idesu/yet-another-blog-engine/internal/router"
	"github.com/idesu/yet-another-blog-engine/internal/validators"
	"github.com/idesu/yet-another-blog-engine/pkg/config"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testApp struct {
	e         *echo.Echo
	db        *gorm.DB
	fragments cache.FragmentCache
	cfg       *config.Config
}

// newTestApp wires the full application against an in-memory database, the
// same way cmd/server does against Postgres.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	cfg := &config.Config{
		MediaRoot:       t.TempDir(),
		JWTSecret:       "test-secret",
		SessionLifetime: time.Hour,
		CacheTTL:        20 * time.Second,
	}
	fragments := cache.NewTTLCache(cfg.CacheTTL)

	e := echo.New()
	e.Validator = validators.NewValidator()
	router.SetupRoutes(e, db, fragments, cfg)

	return &testApp{e: e, db: db, fragments: fragments, cfg: cfg}
}

func (a *testApp) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("!1Qazerfc"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@spam.eggs",
		PasswordHash: string(hash),
	}
	if err := a.db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// sessionFor signs a session cookie for the user, the same token Login sets.
func (a *testApp) sessionFor(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	authHandler := handlers.NewAuthHandler(
		repositories.NewPostgresUserRepository(a.db), a.cfg.JWTSecret, a.cfg.SessionLifetime)
	token, _, err := authHandler.IssueToken(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return &http.Cookie{Name: "session", Value: token, Path: "/"}
}

func (a *testApp) get(t *testing.T, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func mustGroupRow(t *testing.T, a *testApp, slug string) uint {
	t.Helper()
	group := &models.Group{Title: slug, Slug: slug, Description: "test group"}
	if err := a.db.Create(group).Error; err != nil {
		t.Fatalf("create group %s: %v", slug, err)
	}
	return group.ID
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (a *testApp) countPosts(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := a.db.Model(&models.Post{}).Count(&count).Error; err != nil {
		t.Fatalf("count posts: %v", err)
	}
	return count
}
