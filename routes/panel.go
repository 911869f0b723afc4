package routes

import (
	"bandmate.link/handlers/panel"

	"github.com/gofiber/fiber/v2"
)

func registerPanelRoutes(app *fiber.App) {
	sessionHandler := panel.NewSessionHandler()

	group := app.Group("/panel", requireMember)
	group.Get("/sessions", sessionHandler.ListSessions)
	group.Get("/sessions/:id", sessionHandler.GetSession)
	group.Get("/sessions/:id/commitments", sessionHandler.ListCommitments)
	group.Post("/sessions/:id/rsvp", sessionHandler.Commit)
	group.Delete("/sessions/:id/rsvp", sessionHandler.Cancel)
}
