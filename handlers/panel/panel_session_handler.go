package panel

import (
	"bandmate.link/configs/configslog"
	"bandmate.link/pkg/apperrors"
	"bandmate.link/pkg/queryparams"
	"bandmate.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func statusForError(err error) int {
	switch {
	case apperrors.IsNotFound(err):
		return fiber.StatusNotFound
	case apperrors.IsValidation(err):
		return fiber.StatusBadRequest
	case apperrors.IsConflict(err):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func actorID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// SessionHandler is the member-facing session surface: browse sessions, see
// who is coming and what is still missing, and RSVP.
type SessionHandler struct {
	sessionService    services.ISessionService
	commitmentService services.ICommitmentService
	coverageService   services.ICoverageService
}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{
		sessionService:    services.NewSessionService(),
		commitmentService: services.NewCommitmentService(),
		coverageService:   services.NewCoverageService(),
	}
}

// ListSessions (GET /panel/sessions)
func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid query parameters"})
	}
	result, err := h.sessionService.ListSessions(c.UserContext(), params)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// GetSession (GET /panel/sessions/:id) returns the session together with the
// ledger and a freshly computed coverage report.
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}

	session, err := h.sessionService.GetSessionByID(c.UserContext(), uint(id))
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	coverage, err := h.coverageService.ComputeCoverage(c.UserContext(), uint(id))
	if err != nil {
		configslog.Log.Error("coverage compute failed", zap.Uint("sessionID", uint(id)), zap.Error(err))
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"session":  session,
		"coverage": coverage,
	})
}

// Commit (POST /panel/sessions/:id/rsvp) RSVPs the acting member with their
// chosen capability set; a repeated call replaces the set.
func (h *SessionHandler) Commit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	var form struct {
		CapabilityIDs []uint `json:"capability_ids" form:"capability_ids"`
	}
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	userID := actorID(c)
	commitment, err := h.commitmentService.Commit(c.UserContext(), userID, uint(id), userID, form.CapabilityIDs)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(commitment)
}

// Cancel (DELETE /panel/sessions/:id/rsvp) withdraws the acting member's RSVP.
func (h *SessionHandler) Cancel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}

	userID := actorID(c)
	if err := h.commitmentService.Cancel(c.UserContext(), userID, uint(id), userID); err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "rsvp cancelled"})
}

// ListCommitments (GET /panel/sessions/:id/commitments)
func (h *SessionHandler) ListCommitments(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	commitments, err := h.commitmentService.ListCommitments(c.UserContext(), uint(id))
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": commitments})
}
