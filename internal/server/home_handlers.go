package server

import (
	"github.com/gofiber/fiber/v2"
)

// Home shows the timeline for a logged-in user, or the landing page.
func (s *Server) Home(c *fiber.Ctx) error {
	me := currentUser(c)
	if me == nil {
		return s.render(c, "home_anon", nil)
	}

	messages, err := s.messageService.Timeline(c.UserContext(), me.ID)
	if err != nil {
		return err
	}
	return s.render(c, "home", fiber.Map{"Messages": messages})
}
