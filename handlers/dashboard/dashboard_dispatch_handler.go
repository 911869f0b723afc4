package dashboard

import (
	"bandmate.link/services"

	"github.com/gofiber/fiber/v2"
)

// DispatchHandler drives the gap-filling workflow: surface coverage gaps,
// match candidates for one gap, then fan out invitations or reminders.
type DispatchHandler struct {
	coverageService     services.ICoverageService
	matcherService      services.IMatcherService
	notificationService services.INotificationService
}

func NewDispatchHandler(notificationService services.INotificationService) *DispatchHandler {
	return &DispatchHandler{
		coverageService:     services.NewCoverageService(),
		matcherService:      services.NewMatcherService(),
		notificationService: notificationService,
	}
}

// GetCoverage (GET /dashboard/sessions/:id/coverage) recomputes the per-song
// gap map from current state.
func (h *DispatchHandler) GetCoverage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	report, err := h.coverageService.ComputeCoverage(c.UserContext(), uint(id))
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// GetCandidates (GET /dashboard/sessions/:id/candidates/:capabilityID)
// returns who could fill the gap: holders of the capability with no
// commitment on the session.
func (h *DispatchHandler) GetCandidates(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	capabilityID, err := c.ParamsInt("capabilityID")
	if err != nil || capabilityID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid capability id"})
	}

	candidates, err := h.matcherService.FindCandidates(c.UserContext(), uint(id), uint(capabilityID))
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": candidates})
}

// Invite (POST /dashboard/sessions/:id/invite) messages the selected
// candidates about one missing capability. Partial success is expected; the
// result reports counts and per-member skips.
func (h *DispatchHandler) Invite(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	var form struct {
		UserIDs        []uint `json:"user_ids" form:"user_ids"`
		CapabilityName string `json:"capability_name" form:"capability_name"`
	}
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.notificationService.Invite(c.UserContext(), actorID(c), uint(id), form.UserIDs, form.CapabilityName)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// Remind (POST /dashboard/sessions/:id/remind) sends a freeform message to
// every committed member.
func (h *DispatchHandler) Remind(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	var form struct {
		Message string `json:"message" form:"message"`
	}
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.notificationService.Remind(c.UserContext(), actorID(c), uint(id), form.Message)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}
