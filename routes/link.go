package routes

import (
	"bandmate.link/handlers/link"

	"github.com/gofiber/fiber/v2"
)

// Public share-key routes; no identity required.
func registerLinkRoutes(app *fiber.App) {
	lineupHandler := link.NewLineupHandler()
	app.Get("/s/:key", lineupHandler.ShowLineup)
}
