package dashboard

import (
	"bandmate.link/configs/configslog"
	"bandmate.link/pkg/apperrors"
	"bandmate.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// statusForError maps the shared error taxonomy onto HTTP statuses.
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

// CapabilityHandler exposes the capability catalog to administrators.
type CapabilityHandler struct {
	capabilityService services.ICapabilityService
}

func NewCapabilityHandler() *CapabilityHandler {
	return &CapabilityHandler{capabilityService: services.NewCapabilityService()}
}

type capabilityForm struct {
	Name string `json:"name" form:"name"`
	Icon string `json:"icon" form:"icon"`
}

// ListCapabilities (GET /dashboard/capabilities)
func (h *CapabilityHandler) ListCapabilities(c *fiber.Ctx) error {
	capabilities, err := h.capabilityService.ListCapabilities(c.UserContext())
	if err != nil {
		configslog.Log.Error("list capabilities failed", zap.Error(err))
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": capabilities})
}

// CreateCapability (POST /dashboard/capabilities)
func (h *CapabilityHandler) CreateCapability(c *fiber.Ctx) error {
	var form capabilityForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	capability, err := h.capabilityService.CreateCapability(c.UserContext(), actorID(c), form.Name, form.Icon)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(capability)
}

// UpdateCapability (PUT /dashboard/capabilities/:id)
func (h *CapabilityHandler) UpdateCapability(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid capability id"})
	}
	var form capabilityForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.capabilityService.UpdateCapability(c.UserContext(), actorID(c), uint(id), form.Name, form.Icon); err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "capability updated"})
}

// DeleteCapability (DELETE /dashboard/capabilities/:id) refuses while the
// capability is referenced anywhere.
func (h *CapabilityHandler) DeleteCapability(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid capability id"})
	}

	if err := h.capabilityService.DeleteCapability(c.UserContext(), actorID(c), uint(id)); err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "capability deleted"})
}
