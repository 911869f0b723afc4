package dashboard

import (
	"time"

	"bandmate.link/models"
	"bandmate.link/pkg/queryparams"
	"bandmate.link/services"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler exposes rehearsal session administration.
type SessionHandler struct {
	sessionService services.ISessionService
}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{sessionService: services.NewSessionService()}
}

type setlistEntryForm struct {
	Title       string `json:"title" form:"title"`
	ResourceURL string `json:"resource_url" form:"resource_url"`
}

type sessionForm struct {
	Date      string             `json:"date" form:"date"` // "2006-01-02"
	StartTime string             `json:"start_time" form:"start_time"`
	EndTime   string             `json:"end_time" form:"end_time"`
	Password  string             `json:"password" form:"password"`
	Songs     []setlistEntryForm `json:"songs" form:"songs"`
}

func (f sessionForm) toInput() (services.SessionInput, error) {
	date, err := time.Parse("2006-01-02", f.Date)
	if err != nil {
		return services.SessionInput{}, err
	}
	input := services.SessionInput{
		Date:      date,
		StartTime: f.StartTime,
		EndTime:   f.EndTime,
		Password:  f.Password,
	}
	for _, entry := range f.Songs {
		input.Songs = append(input.Songs, models.SessionSong{
			Title:       entry.Title,
			ResourceURL: entry.ResourceURL,
		})
	}
	return input, nil
}

// ListSessions (GET /dashboard/sessions)
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

// GetSession (GET /dashboard/sessions/:id)
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	session, err := h.sessionService.GetSessionByID(c.UserContext(), uint(id))
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(session)
}

// CreateSession (POST /dashboard/sessions)
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	var form sessionForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	input, err := form.toInput()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
	}

	session, err := h.sessionService.CreateSession(c.UserContext(), actorID(c), input)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// UpdateSession (PUT /dashboard/sessions/:id)
func (h *SessionHandler) UpdateSession(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	var form sessionForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	input, err := form.toInput()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
	}

	if err := h.sessionService.UpdateSession(c.UserContext(), actorID(c), uint(id), input); err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "session updated"})
}

// DeleteSession (DELETE /dashboard/sessions/:id)
func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	if err := h.sessionService.DeleteSession(c.UserContext(), actorID(c), uint(id)); err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "session deleted"})
}

// AddRecording (POST /dashboard/sessions/:id/recordings) pins the recorded
// song into the setlist.
func (h *SessionHandler) AddRecording(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	var form struct {
		SongTitle string `json:"song_title" form:"song_title"`
		FileURL   string `json:"file_url" form:"file_url"`
	}
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	recording, err := h.sessionService.AddRecording(c.UserContext(), actorID(c), uint(id), form.SongTitle, form.FileURL)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(recording)
}
