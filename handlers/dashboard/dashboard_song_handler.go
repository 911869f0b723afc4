package dashboard

import (
	"bandmate.link/models"
	"bandmate.link/pkg/queryparams"
	"bandmate.link/services"

	"github.com/gofiber/fiber/v2"
)

// SongHandler exposes the song catalog and per-song requirement sets.
type SongHandler struct {
	songService services.ISongService
}

func NewSongHandler() *SongHandler {
	return &SongHandler{songService: services.NewSongService()}
}

type songForm struct {
	Title       string `json:"title" form:"title"`
	Artist      string `json:"artist" form:"artist"`
	Key         string `json:"key" form:"key"`
	Tempo       int    `json:"tempo" form:"tempo"`
	ResourceURL string `json:"resource_url" form:"resource_url"`
}

// ListSongs (GET /dashboard/songs)
func (h *SongHandler) ListSongs(c *fiber.Ctx) error {
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid query parameters"})
	}
	result, err := h.songService.ListSongs(c.UserContext(), params)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// GetSong (GET /dashboard/songs/:id)
func (h *SongHandler) GetSong(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid song id"})
	}
	song, err := h.songService.GetSongByID(c.UserContext(), uint(id))
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(song)
}

// CreateSong (POST /dashboard/songs)
func (h *SongHandler) CreateSong(c *fiber.Ctx) error {
	var form songForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	song, err := h.songService.CreateSong(c.UserContext(), actorID(c), models.Song{
		Title:       form.Title,
		Artist:      form.Artist,
		SongKey:     form.Key,
		Tempo:       form.Tempo,
		ResourceURL: form.ResourceURL,
	})
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(song)
}

// UpdateSong (PUT /dashboard/songs/:id)
func (h *SongHandler) UpdateSong(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid song id"})
	}
	var form songForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	song := models.Song{
		Title:       form.Title,
		Artist:      form.Artist,
		SongKey:     form.Key,
		Tempo:       form.Tempo,
		ResourceURL: form.ResourceURL,
	}
	song.ID = uint(id)
	if err := h.songService.UpdateSong(c.UserContext(), actorID(c), song); err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "song updated"})
}

// DeleteSong (DELETE /dashboard/songs/:id)
func (h *SongHandler) DeleteSong(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid song id"})
	}
	if err := h.songService.DeleteSong(c.UserContext(), actorID(c), uint(id)); err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "song deleted"})
}

// GetRequirements (GET /dashboard/songs/:id/requirements)
func (h *SongHandler) GetRequirements(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid song id"})
	}
	requirements, err := h.songService.GetRequirements(c.UserContext(), uint(id))
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": requirements})
}

// SetRequirements (PUT /dashboard/songs/:id/requirements) fully replaces the
// requirement set; an empty list clears it.
func (h *SongHandler) SetRequirements(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid song id"})
	}
	var form struct {
		CapabilityIDs []uint `json:"capability_ids" form:"capability_ids"`
	}
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.songService.SetRequirements(c.UserContext(), actorID(c), uint(id), form.CapabilityIDs); err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "requirements updated"})
}
