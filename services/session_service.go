package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bandmate.link/configs"
	"bandmate.link/configs/configslog"
	"bandmate.link/models"
	"bandmate.link/pkg/apperrors"
	"bandmate.link/pkg/queryparams"
	"bandmate.link/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrSessionNotFound        = fmt.Errorf("%w: session does not exist", apperrors.ErrNotFound)
	ErrSessionDateRequired    = fmt.Errorf("%w: session date is required", apperrors.ErrValidation)
	ErrSessionInvalidTime     = fmt.Errorf("%w: start and end time must be HH:MM with end after start", apperrors.ErrValidation)
	ErrSessionSongRecorded    = fmt.Errorf("%w: a recorded song cannot be removed from the setlist", apperrors.ErrConflict)
	ErrSessionWrongPassword   = fmt.Errorf("%w: wrong lineup password", apperrors.ErrValidation)
	ErrRecordingSongNotListed = fmt.Errorf("%w: recording references a song not on the setlist", apperrors.ErrValidation)
)

// SessionInput carries the mutable session fields.
type SessionInput struct {
	Date      time.Time
	StartTime string
	EndTime   string
	Password  string // optional gate for the public lineup page; empty keeps/clears nothing on update
	Songs     []models.SessionSong
}

// ISessionService manages rehearsal sessions and their setlists.
type ISessionService interface {
	CreateSession(ctx context.Context, actorUserID uint, input SessionInput) (*models.Session, error)
	UpdateSession(ctx context.Context, actorUserID, id uint, input SessionInput) error
	DeleteSession(ctx context.Context, actorUserID, id uint) error
	GetSessionByID(ctx context.Context, id uint) (*models.Session, error)
	GetSessionByShareKey(ctx context.Context, key, password string) (*models.Session, error)
	ListSessions(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	AddRecording(ctx context.Context, actorUserID, sessionID uint, songTitle, fileURL string) (*models.Recording, error)
}

type SessionService struct {
	repo     repositories.ISessionRepository
	userRepo repositories.IUserRepository
	db       *gorm.DB
}

func NewSessionService() ISessionService {
	return &SessionService{
		repo:     repositories.NewSessionRepository(),
		userRepo: repositories.NewUserRepository(),
		db:       configs.GetDB(),
	}
}

func validateSessionInput(input SessionInput) error {
	if input.Date.IsZero() {
		return ErrSessionDateRequired
	}
	if !validClockTime(input.StartTime) || !validClockTime(input.EndTime) || input.EndTime <= input.StartTime {
		return ErrSessionInvalidTime
	}
	for _, song := range input.Songs {
		if strings.TrimSpace(song.Title) == "" {
			return fmt.Errorf("%w: setlist entries need a title", apperrors.ErrValidation)
		}
	}
	return nil
}

// validClockTime accepts zero-padded HH:MM; fixed width keeps string
// comparison consistent with chronological order.
func validClockTime(v string) bool {
	if len(v) != 5 || v[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", v)
	return err == nil
}

func (s *SessionService) CreateSession(ctx context.Context, actorUserID uint, input SessionInput) (*models.Session, error) {
	if err := requireAdmin(ctx, s.userRepo, actorUserID); err != nil {
		return nil, err
	}
	if err := validateSessionInput(input); err != nil {
		return nil, err
	}

	session := models.Session{
		Date:      input.Date,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		ShareKey:  uuid.NewString(),
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		session.PasswordHash = string(hash)
	}
	for i, song := range input.Songs {
		song.Position = i
		session.Songs = append(session.Songs, song)
	}

	if err := s.repo.Create(models.ContextWithUserID(ctx, actorUserID), &session); err != nil {
		configslog.Log.Error("session create failed", zap.Error(err))
		return nil, err
	}
	configslog.SLog.Infof("session created: id %d on %s (%d songs)",
		session.ID, session.Date.Format("2006-01-02"), len(session.Songs))
	return &session, nil
}

// UpdateSession replaces date, times and the setlist. Setlist entries that
// already have a recording must survive the replacement.
func (s *SessionService) UpdateSession(ctx context.Context, actorUserID, id uint, input SessionInput) error {
	if err := requireAdmin(ctx, s.userRepo, actorUserID); err != nil {
		return err
	}
	if err := validateSessionInput(input); err != nil {
		return err
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := repositories.ContextWithTx(models.ContextWithUserID(ctx, actorUserID), tx)
		repoTx := repositories.NewSessionRepositoryTx(tx)

		session, err := repoTx.FindByID(txCtx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrSessionNotFound
			}
			return err
		}

		recorded, err := repoTx.RecordedTitles(txCtx, id)
		if err != nil {
			return err
		}
		kept := make(map[string]bool, len(input.Songs))
		for _, song := range input.Songs {
			kept[song.Title] = true
		}
		for title := range recorded {
			if !kept[title] {
				return ErrSessionSongRecorded
			}
		}

		session.Date = input.Date
		session.StartTime = input.StartTime
		session.EndTime = input.EndTime
		if input.Password != "" {
			hash, hashErr := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
			if hashErr != nil {
				return hashErr
			}
			session.PasswordHash = string(hash)
		}
		session.Songs = nil
		session.Commitments = nil
		session.Recordings = nil

		if err := repoTx.ReplaceSetlist(txCtx, id, input.Songs); err != nil {
			return err
		}
		return repoTx.Update(txCtx, session)
	})
	if txErr != nil {
		if !errors.Is(txErr, apperrors.ErrValidation) && !errors.Is(txErr, apperrors.ErrNotFound) && !errors.Is(txErr, apperrors.ErrConflict) {
			configslog.Log.Error("session update transaction failed", zap.Uint("id", id), zap.Error(txErr))
		}
		return txErr
	}
	configslog.SLog.Infof("session updated: id %d", id)
	return nil
}

// DeleteSession removes the session; its commitments cascade with it.
func (s *SessionService) DeleteSession(ctx context.Context, actorUserID, id uint) error {
	if err := requireAdmin(ctx, s.userRepo, actorUserID); err != nil {
		return err
	}
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	if err := s.repo.Delete(models.ContextWithUserID(ctx, actorUserID), session); err != nil {
		return err
	}
	configslog.SLog.Infof("session deleted: id %d", id)
	return nil
}

func (s *SessionService) GetSessionByID(ctx context.Context, id uint) (*models.Session, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// GetSessionByShareKey serves the public lineup page. A password-gated
// session rejects wrong or missing passwords with a validation error.
func (s *SessionService) GetSessionByShareKey(ctx context.Context, key, password string) (*models.Session, error) {
	if key == "" {
		return nil, ErrSessionNotFound
	}
	session, err := s.repo.FindByShareKey(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.PasswordHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(session.PasswordHash), []byte(password)) != nil {
			return nil, ErrSessionWrongPassword
		}
	}
	return session, nil
}

func (s *SessionService) ListSessions(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	sessions, total, err := s.repo.FindAllPaginated(ctx, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: sessions,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  total,
			TotalPages:  queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

// AddRecording attaches a recording reference to a setlist entry, pinning
// that entry against later removal. Blob storage is external; only the URL is
// kept.
func (s *SessionService) AddRecording(ctx context.Context, actorUserID, sessionID uint, songTitle, fileURL string) (*models.Recording, error) {
	if err := requireAdmin(ctx, s.userRepo, actorUserID); err != nil {
		return nil, err
	}
	songTitle = strings.TrimSpace(songTitle)
	if songTitle == "" || strings.TrimSpace(fileURL) == "" {
		return nil, fmt.Errorf("%w: recording needs a song title and file URL", apperrors.ErrValidation)
	}

	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	listed := false
	for _, song := range session.Songs {
		if song.Title == songTitle {
			listed = true
			break
		}
	}
	if !listed {
		return nil, ErrRecordingSongNotListed
	}

	recording := models.Recording{SessionID: sessionID, SongTitle: songTitle, FileURL: fileURL}
	if err := s.repo.AddRecording(models.ContextWithUserID(ctx, actorUserID), &recording); err != nil {
		configslog.Log.Error("recording create failed", zap.Uint("sessionID", sessionID), zap.Error(err))
		return nil, err
	}
	configslog.SLog.Infof("recording added: session %d, song %q", sessionID, songTitle)
	return &recording, nil
}

var _ ISessionService = (*SessionService)(nil)
