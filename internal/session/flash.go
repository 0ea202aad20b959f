package session

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

// FlashCookieName is the name of the one-shot flash message cookie.
const FlashCookieName = "warbler_flash"

// Flash is a one-shot message shown on the next rendered page.
// Level maps onto the alert style ("success" or "danger").
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// AddFlash queues a flash message for the next request. Messages survive a
// redirect via a base64-encoded cookie, so they work for anonymous visitors
// too (e.g. rejections shown before login).
func AddFlash(c *fiber.Ctx, level, message string) {
	flashes := peekFlashes(c)
	flashes = append(flashes, Flash{Level: level, Message: message})

	data, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     FlashCookieName,
		Value:    base64.URLEncoding.EncodeToString(data),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// PopFlashes returns the queued flash messages and clears the cookie.
func PopFlashes(c *fiber.Ctx) []Flash {
	flashes := peekFlashes(c)
	if len(flashes) > 0 {
		c.Cookie(&fiber.Cookie{
			Name:     FlashCookieName,
			Value:    "",
			Path:     "/",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return flashes
}

func peekFlashes(c *fiber.Ctx) []Flash {
	// Prefer a cookie set earlier in this same request, so multiple
	// AddFlash calls accumulate instead of overwriting.
	raw := string(c.Response().Header.PeekCookie(FlashCookieName))
	if raw != "" {
		if _, value, found := cutCookie(raw); found {
			raw = value
		}
	}
	if raw == "" {
		raw = c.Cookies(FlashCookieName)
	}
	if raw == "" {
		return nil
	}

	data, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		return nil
	}
	return flashes
}

// cutCookie extracts the value from a Set-Cookie header line.
func cutCookie(setCookie string) (name, value string, found bool) {
	eq := -1
	semi := len(setCookie)
	for i := 0; i < len(setCookie); i++ {
		if setCookie[i] == '=' && eq == -1 {
			eq = i
		}
		if setCookie[i] == ';' {
			semi = i
			break
		}
	}
	if eq == -1 {
		return "", "", false
	}
	return setCookie[:eq], setCookie[eq+1:semi], true
}
