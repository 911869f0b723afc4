package repositories

import (
	"context"
	"errors"

	"bandmate.link/configs"
	"bandmate.link/configs/configslog"
	"bandmate.link/models"
	"bandmate.link/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ISessionRepository is the rehearsal session storage contract.
type ISessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id uint) (*models.Session, error)
	FindByShareKey(ctx context.Context, key string) (*models.Session, error)
	FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Session, int64, error)
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, session *models.Session) error
	ReplaceSetlist(ctx context.Context, sessionID uint, songs []models.SessionSong) error
	AddRecording(ctx context.Context, recording *models.Recording) error
	RecordedTitles(ctx context.Context, sessionID uint) (map[string]bool, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository() ISessionRepository {
	return &SessionRepository{db: configs.GetDB()}
}

func NewSessionRepositoryTx(tx *gorm.DB) ISessionRepository {
	return &SessionRepository{db: tx}
}

func (r *SessionRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.getDB(ctx).Create(session).Error
}

// FindByID loads the session with its setlist (ordered), commitments
// (insertion order, members and pledged capabilities resolved) and recordings.
func (r *SessionRepository) FindByID(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	err := r.getDB(ctx).
		Preload("Songs", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Commitments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("Commitments.User").
		Preload("Commitments.CoveredCapabilities").
		Preload("Recordings").
		First(&session, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("session FindByID failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) FindByShareKey(ctx context.Context, key string) (*models.Session, error) {
	var session models.Session
	err := r.getDB(ctx).
		Preload("Songs", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Where("share_key = ?", key).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("session FindByShareKey failed", zap.Error(err))
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Session, int64, error) {
	db := r.getDB(ctx).Model(&models.Session{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		configslog.Log.Error("session count failed", zap.Error(err))
		return nil, 0, err
	}

	var sessions []models.Session
	err := db.Preload("Songs", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Order("date " + params.OrderBy).
		Offset(params.Offset()).Limit(params.PerPage).
		Find(&sessions).Error
	if err != nil {
		configslog.Log.Error("session FindAllPaginated failed", zap.Error(err))
		return nil, 0, err
	}
	return sessions, total, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *models.Session) error {
	return r.getDB(ctx).Save(session).Error
}

// Delete removes the session. Setlist and recordings cascade; commitments go
// the hard way, pledge join rows included, or a gone session would keep its
// capabilities counting as referenced forever.
func (r *SessionRepository) Delete(ctx context.Context, session *models.Session) error {
	db := r.getDB(ctx)

	return db.Transaction(func(tx *gorm.DB) error {
		var commitmentIDs []uint
		if err := tx.Model(&models.Commitment{}).
			Where("session_id = ?", session.ID).Pluck("id", &commitmentIDs).Error; err != nil {
			return err
		}
		if len(commitmentIDs) > 0 {
			if err := tx.Exec("DELETE FROM commitment_capabilities WHERE commitment_id IN ?", commitmentIDs).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("id IN ?", commitmentIDs).Delete(&models.Commitment{}).Error; err != nil {
				return err
			}
		}

		result := tx.Select("Songs", "Recordings").Delete(session)
		if result.Error != nil {
			configslog.Log.Error("session Delete failed", zap.Uint("id", session.ID), zap.Error(result.Error))
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ReplaceSetlist swaps the full ordered setlist, delete-then-insert.
func (r *SessionRepository) ReplaceSetlist(ctx context.Context, sessionID uint, songs []models.SessionSong) error {
	db := r.getDB(ctx)
	if err := db.Where("session_id = ?", sessionID).Delete(&models.SessionSong{}).Error; err != nil {
		return err
	}
	for i := range songs {
		songs[i].SessionID = sessionID
		songs[i].Position = i
		songs[i].ID = 0
	}
	if len(songs) == 0 {
		return nil
	}
	return db.Create(&songs).Error
}

func (r *SessionRepository) AddRecording(ctx context.Context, recording *models.Recording) error {
	return r.getDB(ctx).Create(recording).Error
}

// RecordedTitles returns the set of song titles with at least one recording
// on the session; those setlist entries are immutable.
func (r *SessionRepository) RecordedTitles(ctx context.Context, sessionID uint) (map[string]bool, error) {
	var titles []string
	err := r.getDB(ctx).Model(&models.Recording{}).
		Where("session_id = ?", sessionID).
		Distinct().Pluck("song_title", &titles).Error
	if err != nil {
		configslog.Log.Error("session RecordedTitles failed", zap.Uint("sessionID", sessionID), zap.Error(err))
		return nil, err
	}
	recorded := make(map[string]bool, len(titles))
	for _, t := range titles {
		recorded[t] = true
	}
	return recorded, nil
}

func (r *SessionRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Session{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ ISessionRepository = (*SessionRepository)(nil)
