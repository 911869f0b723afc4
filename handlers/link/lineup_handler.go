package link

import (
	"errors"

	"bandmate.link/services"

	"github.com/gofiber/fiber/v2"
)

// LineupHandler serves the public read-only lineup page behind a session's
// share key.
type LineupHandler struct {
	sessionService services.ISessionService
}

func NewLineupHandler() *LineupHandler {
	return &LineupHandler{sessionService: services.NewSessionService()}
}

// ShowLineup (GET /s/:key) renders the setlist for whoever holds the link;
// password-gated sessions read the password from ?pw=.
func (h *LineupHandler) ShowLineup(c *fiber.Ctx) error {
	key := c.Params("key")
	password := c.Query("pw")

	session, err := h.sessionService.GetSessionByShareKey(c.UserContext(), key, password)
	if err != nil {
		if errors.Is(err, services.ErrSessionWrongPassword) {
			return c.Status(fiber.StatusUnauthorized).Render("public/lineup_password", fiber.Map{
				"Title": "Lineup locked",
				"Key":   key,
			})
		}
		return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{
			"Title": "Session not found",
		})
	}

	return c.Render("public/lineup", fiber.Map{
		"Title":   "Rehearsal " + session.Date.Format("2 Jan 2006"),
		"Session": session,
		"Songs":   session.Songs,
	})
}
