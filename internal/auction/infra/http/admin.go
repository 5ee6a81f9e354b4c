package http

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/subastando/auction-api/internal/shared/config"
	"go.uber.org/zap"
)

const (
	adminCookieName  = "admin_session"
	adminCookieValue = "authenticated"
	adminSessionTTL  = 24 * time.Hour
)

// AdminAuth guards the administrative routes with the credentials injected at
// startup and a session cookie, replacing any hard-coded check.
type AdminAuth struct {
	username string
	password string
}

func NewAdminAuth(cfg *config.Config) *AdminAuth {
	return &AdminAuth{
		username: cfg.AdminUsername,
		password: cfg.AdminPassword,
	}
}

// Login checks the submitted credentials and sets the session cookie.
func (a *AdminAuth) Login(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "username and password are required")
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(a.password)) == 1
	if !userOK || !passOK {
		log.Warn("Admin login rejected", zap.String("username", req.Username))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid admin credentials"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     adminCookieName,
		Value:    adminCookieValue,
		HTTPOnly: true,
		Expires:  time.Now().Add(adminSessionTTL),
	})
	return c.JSON(fiber.Map{"success": true})
}

// Logout clears the session cookie.
func (a *AdminAuth) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     adminCookieName,
		Value:    "",
		HTTPOnly: true,
		Expires:  time.Now().Add(-time.Hour),
	})
	return c.JSON(fiber.Map{"success": true})
}

// Middleware rejects requests without a valid admin session.
func (a *AdminAuth) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Cookies(adminCookieName) != adminCookieValue {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "admin session required"})
		}
		return c.Next()
	}
}
