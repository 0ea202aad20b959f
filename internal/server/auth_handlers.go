package server

import (
	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/service"
	"warbler/internal/session"

	"github.com/gofiber/fiber/v2"
)

// ShowSignup renders the signup form. A logged-in visitor is logged out
// first, matching the signup flow's fresh-start behavior.
func (s *Server) ShowSignup(c *fiber.Ctx) error {
	s.dropCurrentSession(c)
	return s.render(c, "auth/signup", fiber.Map{
		"Username": "", "Email": "", "ImageURL": "",
	})
}

// Signup creates an account from the posted form and logs the new user in.
func (s *Server) Signup(c *fiber.Ctx) error {
	s.dropCurrentSession(c)

	in := service.SignupInput{
		Username: c.FormValue("username"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
		ImageURL: c.FormValue("image_url"),
	}

	user, err := s.userService.Signup(c.UserContext(), in)
	if err != nil {
		switch {
		case models.IsCode(err, "CONFLICT"):
			session.AddFlash(c, "danger", "Username already taken")
		case models.IsCode(err, "VALIDATION_ERROR"):
			session.AddFlash(c, "danger", err.Error())
		default:
			return err
		}
		return s.render(c, "auth/signup", fiber.Map{
			"Username": in.Username,
			"Email":    in.Email,
			"ImageURL": in.ImageURL,
		})
	}

	if err := s.login(c, user.ID); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusFound)
}

// ShowLogin renders the login form.
func (s *Server) ShowLogin(c *fiber.Ctx) error {
	return s.render(c, "auth/login", fiber.Map{"Username": ""})
}

// Login authenticates the posted credentials. Unknown usernames and wrong
// passwords produce the same flash.
func (s *Server) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	user, err := s.userService.Authenticate(c.UserContext(), username, password)
	if err != nil {
		if models.IsCode(err, "UNAUTHORIZED") {
			session.AddFlash(c, "danger", "Invalid credentials.")
			return s.render(c, "auth/login", fiber.Map{"Username": username})
		}
		return err
	}

	if err := s.login(c, user.ID); err != nil {
		return err
	}
	session.AddFlash(c, "success", "Hello, "+user.Username+"!")
	return c.Redirect("/", fiber.StatusFound)
}

// Logout destroys the current session and redirects home.
func (s *Server) Logout(c *fiber.Ctx) error {
	if currentUser(c) == nil {
		session.AddFlash(c, "danger", "You are not logged in")
		return c.Redirect("/", fiber.StatusFound)
	}

	s.dropCurrentSession(c)
	session.AddFlash(c, "success", "Logged out successfully")
	return c.Redirect("/", fiber.StatusFound)
}

// login opens a session for the user and sets the cookie.
func (s *Server) login(c *fiber.Ctx, userID uint) error {
	token, err := s.sessions.Create(c.UserContext(), userID)
	if err != nil {
		return err
	}
	s.setSessionCookie(c, token)
	return nil
}

// dropCurrentSession logs out whoever is logged in, if anyone.
func (s *Server) dropCurrentSession(c *fiber.Ctx) {
	sid := currentSessionID(c)
	if sid == "" {
		return
	}
	if err := s.sessions.Destroy(c.UserContext(), sid); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to destroy session", "error", err)
	}
	s.clearSessionCookie(c)
	c.Locals("currentUser", nil)
	c.Locals("sessionID", "")
}
