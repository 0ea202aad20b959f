package server

import (
	"strconv"

	"warbler/internal/models"
	"warbler/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Follow makes the current user follow the target user.
func (s *Server) Follow(c *fiber.Ctx) error {
	me := currentUser(c)

	targetID, err := parseID(c, "id")
	if err != nil {
		return s.NotFound(c)
	}
	if _, err := s.userRepo.GetByID(c.UserContext(), targetID); err != nil {
		return s.NotFound(c)
	}

	if targetID == me.ID {
		session.AddFlash(c, "danger", "You cannot follow yourself")
		return s.redirectToFollowing(c, me.ID)
	}

	err = s.followRepo.Create(c.UserContext(), &models.Follow{
		FollowerID: me.ID,
		FollowedID: targetID,
	})
	if err != nil {
		if models.IsCode(err, "CONFLICT") {
			session.AddFlash(c, "danger", "Already following this user")
			return s.redirectToFollowing(c, me.ID)
		}
		return err
	}

	return s.redirectToFollowing(c, me.ID)
}

// StopFollowing removes the current user's follow of the target user.
// Unfollowing someone not followed is a 404, like any other absent row.
func (s *Server) StopFollowing(c *fiber.Ctx) error {
	me := currentUser(c)

	targetID, err := parseID(c, "id")
	if err != nil {
		return s.NotFound(c)
	}

	if err := s.followRepo.Delete(c.UserContext(), me.ID, targetID); err != nil {
		if models.IsCode(err, "NOT_FOUND") {
			return s.NotFound(c)
		}
		return err
	}

	return s.redirectToFollowing(c, me.ID)
}

func (s *Server) redirectToFollowing(c *fiber.Ctx, userID uint) error {
	return c.Redirect("/users/"+strconv.FormatUint(uint64(userID), 10)+"/following", fiber.StatusFound)
}
