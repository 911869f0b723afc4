package configs

import (
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
)

var sessionStore *session.Store

// SetupSession builds (once) the cookie-backed session store shared by the
// identity middleware. The identity provider itself is external; this store
// only carries the pre-authenticated {userID, isAdmin} pair between requests.
func SetupSession() *session.Store {
	if sessionStore != nil {
		return sessionStore
	}
	sessionStore = session.New(session.Config{
		Expiration:     24 * time.Hour,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	return sessionStore
}
