package server

import (
	"context"
	"strconv"
	"strings"
	"time"

	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/session"

	"github.com/gofiber/fiber/v2"
)

// parseID extracts a positive numeric route parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid ID")
	}
	return uint(id), nil
}

// currentUser returns the logged-in user resolved by LoadUser, or nil.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("currentUser").(*models.User)
	return user
}

// currentSessionID returns the session ID resolved by LoadUser, or "".
func currentSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals("sessionID").(string)
	return sid
}

// LoadUser resolves the session cookie into the current user once per
// request. An absent or invalid cookie just leaves the request anonymous.
func (s *Server) LoadUser(c *fiber.Ctx) error {
	token := c.Cookies(session.CookieName)
	if token == "" {
		return c.Next()
	}

	userID, sid, err := s.sessions.Verify(c.UserContext(), token)
	if err != nil {
		s.clearSessionCookie(c)
		return c.Next()
	}

	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		// The user behind a live session was deleted; drop the session.
		s.clearSessionCookie(c)
		return c.Next()
	}

	c.Locals("currentUser", user)
	c.Locals("userID", userID)
	c.Locals("sessionID", sid)
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
	c.SetUserContext(ctx)

	return c.Next()
}

// RequireUser rejects anonymous requests with a flash and a redirect to the
// landing page, never with an error status.
func (s *Server) RequireUser(c *fiber.Ctx) error {
	if currentUser(c) == nil {
		session.AddFlash(c, "danger", "Access unauthorized.")
		return c.Redirect("/", fiber.StatusFound)
	}
	return c.Next()
}

// render draws a page with the request-scoped values every view needs.
func (s *Server) render(c *fiber.Ctx, name string, bind fiber.Map) error {
	if bind == nil {
		bind = fiber.Map{}
	}
	if user := currentUser(c); user != nil {
		bind["CurrentUser"] = user
	}
	bind["Flashes"] = session.PopFlashes(c)
	csrfToken, _ := c.Locals("csrf_token").(string)
	bind["CSRFToken"] = csrfToken
	return c.Render(name, bind)
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(session.TTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   s.config.IsProduction(),
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
