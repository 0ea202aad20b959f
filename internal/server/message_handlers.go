package server

import (
	"strconv"

	"warbler/internal/models"
	"warbler/internal/session"

	"github.com/gofiber/fiber/v2"
)

// ShowNewMessage renders the message composition form.
func (s *Server) ShowNewMessage(c *fiber.Ctx) error {
	return s.render(c, "messages/new", fiber.Map{"Text": ""})
}

// PostMessage stores a new message and redirects to the author's profile.
func (s *Server) PostMessage(c *fiber.Ctx) error {
	me := currentUser(c)
	text := c.FormValue("text")

	if _, err := s.messageService.Post(c.UserContext(), me.ID, text); err != nil {
		if models.IsCode(err, "VALIDATION_ERROR") {
			session.AddFlash(c, "danger", err.Error())
			return s.render(c, "messages/new", fiber.Map{"Text": text})
		}
		return err
	}

	return s.redirectToProfile(c, me.ID)
}

// ShowMessage renders a single message page.
func (s *Server) ShowMessage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return s.NotFound(c)
	}

	message, err := s.messageService.GetMessage(c.UserContext(), id)
	if err != nil {
		if models.IsCode(err, "NOT_FOUND") {
			return s.NotFound(c)
		}
		return err
	}

	bind := fiber.Map{"Message": message}
	if n, err := s.likeRepo.CountForMessage(c.UserContext(), id); err == nil {
		bind["LikeCount"] = n
	}
	if me := currentUser(c); me != nil {
		if like, err := s.likeRepo.Get(c.UserContext(), me.ID, id); err == nil {
			bind["Liked"] = like != nil
		}
	}
	return s.render(c, "messages/show", bind)
}

// DeleteMessage removes a message the current user wrote. Anyone else gets
// turned away with a flash, the same as an anonymous visitor.
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	me := currentUser(c)

	id, err := parseID(c, "id")
	if err != nil {
		return s.NotFound(c)
	}

	if err := s.messageService.Delete(c.UserContext(), id, me.ID); err != nil {
		switch {
		case models.IsCode(err, "NOT_FOUND"):
			return s.NotFound(c)
		case models.IsCode(err, "UNAUTHORIZED"):
			session.AddFlash(c, "danger", "Access unauthorized.")
			return c.Redirect("/", fiber.StatusFound)
		default:
			return err
		}
	}

	return s.redirectToProfile(c, me.ID)
}

func (s *Server) redirectToProfile(c *fiber.Ctx, userID uint) error {
	return c.Redirect("/users/"+strconv.FormatUint(uint64(userID), 10), fiber.StatusFound)
}
