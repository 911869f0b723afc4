package dashboard

import (
	"bandmate.link/services"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler exposes the member directory: profile capability sets and
// contact channels. Accounts are provisioned upstream; this surface only
// edits what the coverage workflow reads.
type MemberHandler struct {
	memberService services.IMemberService
}

func NewMemberHandler() *MemberHandler {
	return &MemberHandler{memberService: services.NewMemberService()}
}

// ListMembers (GET /dashboard/members)
func (h *MemberHandler) ListMembers(c *fiber.Ctx) error {
	members, err := h.memberService.ListMembers(c.UserContext())
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": members})
}

// GetMember (GET /dashboard/members/:id)
func (h *MemberHandler) GetMember(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member id"})
	}
	member, err := h.memberService.GetMember(c.UserContext(), uint(id))
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(member)
}

// GetCapabilities (GET /dashboard/members/:id/capabilities)
func (h *MemberHandler) GetCapabilities(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member id"})
	}
	capabilities, err := h.memberService.GetMemberCapabilities(c.UserContext(), uint(id))
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": capabilities})
}

// SetCapabilities (PUT /dashboard/members/:id/capabilities) fully replaces
// the member's profile set; an empty list clears it.
func (h *MemberHandler) SetCapabilities(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member id"})
	}
	var form struct {
		CapabilityIDs []uint `json:"capability_ids" form:"capability_ids"`
	}
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.memberService.SetMemberCapabilities(c.UserContext(), actorID(c), uint(id), form.CapabilityIDs); err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "member capabilities updated"})
}

// UpdateContact (PUT /dashboard/members/:id/contact) sets or clears the
// member's phone number.
func (h *MemberHandler) UpdateContact(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member id"})
	}
	var form struct {
		Phone string `json:"phone" form:"phone"`
	}
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.memberService.UpdateContactChannel(c.UserContext(), actorID(c), uint(id), form.Phone); err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "member contact updated"})
}
