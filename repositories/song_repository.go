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

// ISongRepository is the song catalog storage contract, including the
// requirement set (a property of the song, shared across sessions).
type ISongRepository interface {
	Create(ctx context.Context, song *models.Song) error
	FindByID(ctx context.Context, id uint) (*models.Song, error)
	FindByTitle(ctx context.Context, title string) (*models.Song, error)
	FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Song, int64, error)
	Update(ctx context.Context, song *models.Song) error
	Delete(ctx context.Context, song *models.Song) error
	ReplaceRequirements(ctx context.Context, songID uint, capabilities []models.Capability) error
	GetRequirements(ctx context.Context, songID uint) ([]models.Capability, error)
}

type SongRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Song]
}

func NewSongRepository() ISongRepository {
	db := configs.GetDB()
	return &SongRepository{db: db, base: NewBaseRepository[models.Song](db)}
}

func NewSongRepositoryTx(tx *gorm.DB) ISongRepository {
	return &SongRepository{db: tx, base: NewBaseRepository[models.Song](tx)}
}

func (r *SongRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func (r *SongRepository) Create(ctx context.Context, song *models.Song) error {
	return r.base.Create(ctx, song)
}

func (r *SongRepository) FindByID(ctx context.Context, id uint) (*models.Song, error) {
	var song models.Song
	err := r.getDB(ctx).Preload("RequiredCapabilities").First(&song, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &song, nil
}

// FindByTitle resolves a setlist snapshot back to the catalog. Titles are the
// join key; with duplicate titles the oldest row wins (known limitation).
func (r *SongRepository) FindByTitle(ctx context.Context, title string) (*models.Song, error) {
	var song models.Song
	err := r.getDB(ctx).Preload("RequiredCapabilities").
		Where("title = ?", title).Order("id asc").First(&song).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("song FindByTitle failed", zap.String("title", title), zap.Error(err))
		return nil, err
	}
	return &song, nil
}

func (r *SongRepository) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Song, int64, error) {
	db := r.getDB(ctx).Model(&models.Song{})
	if params.Name != "" {
		db = db.Where("title ILIKE ?", "%"+params.Name+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		configslog.Log.Error("song count failed", zap.Error(err))
		return nil, 0, err
	}

	var songs []models.Song
	err := db.Preload("RequiredCapabilities").
		Order("title " + params.OrderBy).
		Offset(params.Offset()).Limit(params.PerPage).
		Find(&songs).Error
	if err != nil {
		configslog.Log.Error("song FindAllPaginated failed", zap.Error(err))
		return nil, 0, err
	}
	return songs, total, nil
}

func (r *SongRepository) Update(ctx context.Context, song *models.Song) error {
	return r.base.Save(ctx, song)
}

// Delete removes the song and its requirement join rows; left behind they
// would keep the required capabilities counting as referenced.
func (r *SongRepository) Delete(ctx context.Context, song *models.Song) error {
	if err := r.getDB(ctx).Model(song).Association("RequiredCapabilities").Clear(); err != nil {
		configslog.Log.Error("song requirement clear failed", zap.Uint("songID", song.ID), zap.Error(err))
		return err
	}
	return r.base.Delete(ctx, song)
}

// ReplaceRequirements swaps the full requirement set in one association
// replace; passing an empty slice clears it (a song with no requirements is
// valid).
func (r *SongRepository) ReplaceRequirements(ctx context.Context, songID uint, capabilities []models.Capability) error {
	song := models.Song{BaseModel: models.BaseModel{ID: songID}}
	err := r.getDB(ctx).Model(&song).Association("RequiredCapabilities").Replace(capabilities)
	if err != nil {
		configslog.Log.Error("song ReplaceRequirements failed", zap.Uint("songID", songID), zap.Error(err))
	}
	return err
}

// GetRequirements returns the requirement set; a song without requirements
// yields an empty set, never an error.
func (r *SongRepository) GetRequirements(ctx context.Context, songID uint) ([]models.Capability, error) {
	song := models.Song{BaseModel: models.BaseModel{ID: songID}}
	var capabilities []models.Capability
	err := r.getDB(ctx).Model(&song).Association("RequiredCapabilities").Find(&capabilities)
	if err != nil {
		configslog.Log.Error("song GetRequirements failed", zap.Uint("songID", songID), zap.Error(err))
		return nil, err
	}
	return capabilities, nil
}

var _ ISongRepository = (*SongRepository)(nil)
