package routes

import (
	"bandmate.link/configs"
	"bandmate.link/configs/configslog"
	"bandmate.link/handlers/dashboard"
	"bandmate.link/pkg/messaging"
	"bandmate.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func registerDashboardRoutes(app *fiber.App) {
	capabilityHandler := dashboard.NewCapabilityHandler()
	memberHandler := dashboard.NewMemberHandler()
	songHandler := dashboard.NewSongHandler()
	sessionHandler := dashboard.NewSessionHandler()
	dispatchHandler := dashboard.NewDispatchHandler(services.NewNotificationService(buildMessenger()))

	group := app.Group("/dashboard", requireAdmin)

	group.Get("/capabilities", capabilityHandler.ListCapabilities)
	group.Post("/capabilities", capabilityHandler.CreateCapability)
	group.Put("/capabilities/:id", capabilityHandler.UpdateCapability)
	group.Delete("/capabilities/:id", capabilityHandler.DeleteCapability)

	group.Get("/members", memberHandler.ListMembers)
	group.Get("/members/:id", memberHandler.GetMember)
	group.Get("/members/:id/capabilities", memberHandler.GetCapabilities)
	group.Put("/members/:id/capabilities", memberHandler.SetCapabilities)
	group.Put("/members/:id/contact", memberHandler.UpdateContact)

	group.Get("/songs", songHandler.ListSongs)
	group.Post("/songs", songHandler.CreateSong)
	group.Get("/songs/:id", songHandler.GetSong)
	group.Put("/songs/:id", songHandler.UpdateSong)
	group.Delete("/songs/:id", songHandler.DeleteSong)
	group.Get("/songs/:id/requirements", songHandler.GetRequirements)
	group.Put("/songs/:id/requirements", songHandler.SetRequirements)

	group.Get("/sessions", sessionHandler.ListSessions)
	group.Post("/sessions", sessionHandler.CreateSession)
	group.Get("/sessions/:id", sessionHandler.GetSession)
	group.Put("/sessions/:id", sessionHandler.UpdateSession)
	group.Delete("/sessions/:id", sessionHandler.DeleteSession)
	group.Post("/sessions/:id/recordings", sessionHandler.AddRecording)

	group.Get("/sessions/:id/coverage", dispatchHandler.GetCoverage)
	group.Get("/sessions/:id/candidates/:capabilityID", dispatchHandler.GetCandidates)
	group.Post("/sessions/:id/invite", dispatchHandler.Invite)
	group.Post("/sessions/:id/remind", dispatchHandler.Remind)
}

// buildMessenger creates the shoutrrr transport from env. Without a template
// the dispatcher still works but reports every recipient as skipped.
func buildMessenger() messaging.Messenger {
	template := configs.MessengerURLTemplate()
	if template == "" {
		configslog.SLog.Warn("MESSENGER_URL_TEMPLATE not set, outbound messages will be skipped")
		return nil
	}
	messenger, err := messaging.NewShoutrrrMessenger(template, configs.DispatchSendTimeout())
	if err != nil {
		configslog.Log.Error("messenger setup failed", zap.Error(err))
		return nil
	}
	return messenger
}
