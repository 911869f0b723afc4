package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

var ErrNoSession = errors.New("no session available")

// SessionStart fetches the request's session from the store placed in locals
// by the identity middleware.
func SessionStart(c *fiber.Ctx) (*session.Session, error) {
	store, ok := c.Locals("session_store").(*session.Store)
	if !ok || store == nil {
		return nil, ErrNoSession
	}
	return store.Get(c)
}

// GetUserIDFromSession reads the pre-authenticated member id.
func GetUserIDFromSession(sess *session.Session) (uint, error) {
	switch v := sess.Get("user_id").(type) {
	case uint:
		return v, nil
	case int:
		if v > 0 {
			return uint(v), nil
		}
	case float64:
		if v > 0 {
			return uint(v), nil
		}
	}
	return 0, errors.New("user id not in session")
}

// GetIsAdminFromSession reads the pre-authenticated admin flag.
func GetIsAdminFromSession(sess *session.Session) (bool, error) {
	if v, ok := sess.Get("is_admin").(bool); ok {
		return v, nil
	}
	return false, errors.New("admin flag not in session")
}
