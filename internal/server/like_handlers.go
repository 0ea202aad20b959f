package server

import (
	"strconv"

	"warbler/internal/models"
	"warbler/internal/session"

	"github.com/gofiber/fiber/v2"
)

// LikeMessage records the current user's like of a message. Liking your own
// message is rejected with a flash.
func (s *Server) LikeMessage(c *fiber.Ctx) error {
	me := currentUser(c)

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

	if message.UserID == me.ID {
		session.AddFlash(c, "danger", "Cannot like your own message")
		return s.redirectToMessage(c, id)
	}

	err = s.likeRepo.Create(c.UserContext(), &models.Like{UserID: me.ID, MessageID: id})
	if err != nil {
		if models.IsCode(err, "CONFLICT") {
			session.AddFlash(c, "danger", "Message already liked")
			return s.redirectToMessage(c, id)
		}
		return err
	}

	return s.redirectToMessage(c, id)
}

// UnlikeMessage removes the current user's like. An absent like is a 404.
func (s *Server) UnlikeMessage(c *fiber.Ctx) error {
	me := currentUser(c)

	id, err := parseID(c, "id")
	if err != nil {
		return s.NotFound(c)
	}

	if err := s.likeRepo.Delete(c.UserContext(), me.ID, id); err != nil {
		if models.IsCode(err, "NOT_FOUND") {
			return s.NotFound(c)
		}
		return err
	}

	return c.Redirect("/", fiber.StatusFound)
}

func (s *Server) redirectToMessage(c *fiber.Ctx, messageID uint) error {
	return c.Redirect("/messages/"+strconv.FormatUint(uint64(messageID), 10), fiber.StatusFound)
}
