package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nordai-studio/studio-cms/internal/auth"
)

// SessionCookie is the cookie carrying the opaque session ID.
const SessionCookie = "cms_session"

// sessionKey is the Locals key holding the resolved *auth.Session.
const sessionKey = "session"

// SessionRequired resolves the session cookie through the gate and rejects
// requests without a live session.
func SessionRequired(gate *auth.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(SessionCookie)
		if id == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "not signed in",
			})
		}
		session, ok := gate.Lookup(id)
		if !ok {
			c.ClearCookie(SessionCookie)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "session expired",
			})
		}
		c.Locals(sessionKey, session)
		return c.Next()
	}
}

// SessionFrom returns the session stored by SessionRequired.
func SessionFrom(c *fiber.Ctx) *auth.Session {
	session, _ := c.Locals(sessionKey).(*auth.Session)
	return session
}
