package server

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"warbler/internal/config"
	"warbler/internal/models"
	"warbler/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestServer builds a full server over an in-memory database and a
// miniredis instance.
func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Message{}, &models.Follow{}, &models.Like{}))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		SessionSecret: "test-session-secret",
		Env:           "test",
	}

	s, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)

	return s, s.App()
}

// postForm sends a form-encoded POST, optionally with a session cookie.
func postForm(t *testing.T, app *fiber.App, path string, form url.Values, cookie string) *http.Response {
	t.Helper()

	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, app *fiber.App, path, cookie string) *http.Response {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

// sessionCookie extracts the session cookie from a login/signup response.
func sessionCookie(t *testing.T, resp *http.Response) string {
	t.Helper()
	for _, sc := range resp.Header.Values("Set-Cookie") {
		if strings.HasPrefix(sc, session.CookieName+"=") {
			return strings.SplitN(sc, ";", 2)[0]
		}
	}
	t.Fatal("no session cookie in response")
	return ""
}

// flashesFrom decodes the flash cookie a response queued for the next page.
func flashesFrom(t *testing.T, resp *http.Response) []session.Flash {
	t.Helper()
	for _, sc := range resp.Header.Values("Set-Cookie") {
		if !strings.HasPrefix(sc, session.FlashCookieName+"=") {
			continue
		}
		value := strings.SplitN(strings.SplitN(sc, ";", 2)[0], "=", 2)[1]
		if value == "" {
			continue
		}
		data, err := base64.URLEncoding.DecodeString(value)
		require.NoError(t, err)
		var flashes []session.Flash
		require.NoError(t, json.Unmarshal(data, &flashes))
		return flashes
	}
	return nil
}

func flashMessages(t *testing.T, resp *http.Response) []string {
	t.Helper()
	var messages []string
	for _, f := range flashesFrom(t, resp) {
		messages = append(messages, f.Message)
	}
	return messages
}

// signupUser registers a user through the HTTP surface and returns their
// session cookie.
func signupUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	resp := postForm(t, app, "/signup", url.Values{
		"username": {username},
		"email":    {username + "@example.com"},
		"password": {"sekrit1"},
	}, "")
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	return sessionCookie(t, resp)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func userByUsername(t *testing.T, s *Server, username string) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, s.db.Where("username = ?", username).First(&user).Error)
	return &user
}
