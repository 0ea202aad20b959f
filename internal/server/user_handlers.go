package server

import (
	"strconv"

	"warbler/internal/models"
	"warbler/internal/service"
	"warbler/internal/session"

	"github.com/gofiber/fiber/v2"
)

const userPageSize = 100

// ListUsers shows all users, or those matching the q username filter.
func (s *Server) ListUsers(c *fiber.Ctx) error {
	q := c.Query("q")

	var (
		users []models.User
		err   error
	)
	if q == "" {
		users, err = s.userService.ListUsers(c.UserContext(), userPageSize, 0)
	} else {
		users, err = s.userService.SearchUsers(c.UserContext(), q, userPageSize, 0)
	}
	if err != nil {
		return err
	}

	return s.render(c, "users/index", fiber.Map{
		"Users": users,
		"Query": q,
	})
}

// ShowUser renders a user's profile with their messages.
func (s *Server) ShowUser(c *fiber.Ctx) error {
	user, err := s.lookupUser(c)
	if err != nil {
		return s.NotFound(c)
	}

	messages, err := s.messageService.ListByUser(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return s.render(c, "users/show", s.profileBind(c, user, fiber.Map{
		"Messages": messages,
	}))
}

// ShowFollowing lists the users this user follows.
func (s *Server) ShowFollowing(c *fiber.Ctx) error {
	user, err := s.lookupUser(c)
	if err != nil {
		return s.NotFound(c)
	}

	following, err := s.followRepo.Following(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return s.render(c, "users/following", s.profileBind(c, user, fiber.Map{
		"Following": following,
	}))
}

// ShowFollowers lists this user's followers.
func (s *Server) ShowFollowers(c *fiber.Ctx) error {
	user, err := s.lookupUser(c)
	if err != nil {
		return s.NotFound(c)
	}

	followers, err := s.followRepo.Followers(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return s.render(c, "users/followers", s.profileBind(c, user, fiber.Map{
		"Followers": followers,
	}))
}

// ShowLikes lists the messages this user has liked, most recent like first.
func (s *Server) ShowLikes(c *fiber.Ctx) error {
	user, err := s.lookupUser(c)
	if err != nil {
		return s.NotFound(c)
	}

	messages, err := s.likeRepo.LikedMessages(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return s.render(c, "users/likes", s.profileBind(c, user, fiber.Map{
		"Messages": messages,
	}))
}

// ShowEditProfile renders the profile edit form for the current user.
func (s *Server) ShowEditProfile(c *fiber.Ctx) error {
	return s.render(c, "users/edit", fiber.Map{"User": currentUser(c)})
}

// EditProfile applies profile edits after the user re-enters their password.
func (s *Server) EditProfile(c *fiber.Ctx) error {
	me := currentUser(c)
	in := service.UpdateProfileInput{
		UserID:         me.ID,
		Username:       c.FormValue("username"),
		Email:          c.FormValue("email"),
		ImageURL:       c.FormValue("image_url"),
		HeaderImageURL: c.FormValue("header_image_url"),
		Bio:            c.FormValue("bio"),
		Location:       c.FormValue("location"),
		Password:       c.FormValue("password"),
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), in)
	if err != nil {
		switch {
		case models.IsCode(err, "UNAUTHORIZED"):
			session.AddFlash(c, "danger", "User Password Incorrect")
		case models.IsCode(err, "VALIDATION_ERROR"):
			session.AddFlash(c, "danger", err.Error())
		case models.IsCode(err, "CONFLICT"):
			session.AddFlash(c, "danger", "Username already taken")
		default:
			return err
		}
		// Re-present what the user typed, not the stored profile.
		form := *me
		form.Username = in.Username
		form.Email = in.Email
		form.ImageURL = in.ImageURL
		form.HeaderImageURL = in.HeaderImageURL
		form.Bio = in.Bio
		form.Location = in.Location
		return s.render(c, "users/edit", fiber.Map{"User": &form})
	}

	session.AddFlash(c, "success", "User Profile Updated")
	return c.Redirect("/users/"+strconv.FormatUint(uint64(user.ID), 10), fiber.StatusFound)
}

// DeleteAccount logs the user out and removes them with everything they own.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	me := currentUser(c)
	s.dropCurrentSession(c)

	if err := s.userService.DeleteAccount(c.UserContext(), me.ID); err != nil {
		return err
	}
	return c.Redirect("/signup", fiber.StatusFound)
}

// lookupUser resolves the :id route parameter to a user.
func (s *Server) lookupUser(c *fiber.Ctx) (*models.User, error) {
	id, err := parseID(c, "id")
	if err != nil {
		return nil, err
	}
	return s.userService.GetUserByID(c.UserContext(), id)
}

// profileBind assembles the values common to every profile tab.
func (s *Server) profileBind(c *fiber.Ctx, user *models.User, bind fiber.Map) fiber.Map {
	ctx := c.UserContext()
	bind["User"] = user

	if n, err := s.messageRepo.CountByUser(ctx, user.ID); err == nil {
		bind["MessageCount"] = n
	}
	if n, err := s.followRepo.CountFollowing(ctx, user.ID); err == nil {
		bind["FollowingCount"] = n
	}
	if n, err := s.followRepo.CountFollowers(ctx, user.ID); err == nil {
		bind["FollowerCount"] = n
	}

	me := currentUser(c)
	if me != nil && me.ID != user.ID {
		if following, err := s.followRepo.Exists(ctx, me.ID, user.ID); err == nil {
			bind["IsFollowing"] = following
		}
	}
	return bind
}
