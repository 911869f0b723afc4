package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bandmate.link/configs/configslog"
	"bandmate.link/models"
	"bandmate.link/pkg/apperrors"
	"bandmate.link/pkg/queryparams"
	"bandmate.link/repositories"

	"go.uber.org/zap"
)

var (
	ErrSongNotFound          = fmt.Errorf("%w: song does not exist", apperrors.ErrNotFound)
	ErrSongTitleRequired     = fmt.Errorf("%w: song title is required", apperrors.ErrValidation)
	ErrUnknownRequirementCap = fmt.Errorf("%w: requirement references an unknown capability", apperrors.ErrValidation)
)

// ISongService manages the song catalog and its requirement sets.
type ISongService interface {
	CreateSong(ctx context.Context, actorUserID uint, song models.Song) (*models.Song, error)
	UpdateSong(ctx context.Context, actorUserID uint, song models.Song) error
	DeleteSong(ctx context.Context, actorUserID, id uint) error
	GetSongByID(ctx context.Context, id uint) (*models.Song, error)
	ListSongs(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	SetRequirements(ctx context.Context, actorUserID, songID uint, capabilityIDs []uint) error
	GetRequirements(ctx context.Context, songID uint) ([]models.Capability, error)
}

type SongService struct {
	repo           repositories.ISongRepository
	capabilityRepo repositories.ICapabilityRepository
	userRepo       repositories.IUserRepository
}

func NewSongService() ISongService {
	return &SongService{
		repo:           repositories.NewSongRepository(),
		capabilityRepo: repositories.NewCapabilityRepository(),
		userRepo:       repositories.NewUserRepository(),
	}
}

func (s *SongService) CreateSong(ctx context.Context, actorUserID uint, song models.Song) (*models.Song, error) {
	if err := requireAdmin(ctx, s.userRepo, actorUserID); err != nil {
		return nil, err
	}
	song.Title = strings.TrimSpace(song.Title)
	if song.Title == "" {
		return nil, ErrSongTitleRequired
	}
	song.ID = 0

	if err := s.repo.Create(models.ContextWithUserID(ctx, actorUserID), &song); err != nil {
		configslog.Log.Error("song create failed", zap.String("title", song.Title), zap.Error(err))
		return nil, err
	}
	configslog.SLog.Infof("song created: %s (id %d)", song.Title, song.ID)
	return &song, nil
}

func (s *SongService) UpdateSong(ctx context.Context, actorUserID uint, song models.Song) error {
	if err := requireAdmin(ctx, s.userRepo, actorUserID); err != nil {
		return err
	}
	song.Title = strings.TrimSpace(song.Title)
	if song.Title == "" {
		return ErrSongTitleRequired
	}

	existing, err := s.repo.FindByID(ctx, song.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSongNotFound
		}
		return err
	}

	existing.Title = song.Title
	existing.Artist = song.Artist
	existing.SongKey = song.SongKey
	existing.Tempo = song.Tempo
	existing.ResourceURL = song.ResourceURL
	return s.repo.Update(models.ContextWithUserID(ctx, actorUserID), existing)
}

func (s *SongService) DeleteSong(ctx context.Context, actorUserID, id uint) error {
	if err := requireAdmin(ctx, s.userRepo, actorUserID); err != nil {
		return err
	}
	song, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSongNotFound
		}
		return err
	}
	// Setlists keep their own title snapshot, so deleting a catalog song never
	// rewrites past sessions; its requirements simply stop resolving.
	if err := s.repo.Delete(models.ContextWithUserID(ctx, actorUserID), song); err != nil {
		return err
	}
	configslog.SLog.Infof("song deleted: %s (id %d)", song.Title, id)
	return nil
}

func (s *SongService) GetSongByID(ctx context.Context, id uint) (*models.Song, error) {
	song, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, err
	}
	return song, nil
}

func (s *SongService) ListSongs(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	songs, total, err := s.repo.FindAllPaginated(ctx, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: songs,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  total,
			TotalPages:  queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

// SetRequirements fully replaces the song's requirement set. An empty set is
// valid (the song has no special requirements). Admin only.
func (s *SongService) SetRequirements(ctx context.Context, actorUserID, songID uint, capabilityIDs []uint) error {
	if err := requireAdmin(ctx, s.userRepo, actorUserID); err != nil {
		return err
	}
	if _, err := s.repo.FindByID(ctx, songID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSongNotFound
		}
		return err
	}

	capabilityIDs = dedupeIDs(capabilityIDs)
	capabilities, err := s.capabilityRepo.FindByIDs(ctx, capabilityIDs)
	if err != nil {
		return err
	}
	if len(capabilities) != len(capabilityIDs) {
		return ErrUnknownRequirementCap
	}

	if err := s.repo.ReplaceRequirements(models.ContextWithUserID(ctx, actorUserID), songID, capabilities); err != nil {
		return err
	}
	configslog.SLog.Infof("song %d requirements replaced (%d capabilities)", songID, len(capabilities))
	return nil
}

// GetRequirements returns the requirement set; empty when the song declares
// none. Missing songs still error: callers asking for a nonexistent song id
// made a mistake, unlike a song that simply has no requirements.
func (s *SongService) GetRequirements(ctx context.Context, songID uint) ([]models.Capability, error) {
	if _, err := s.repo.FindByID(ctx, songID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, err
	}
	return s.repo.GetRequirements(ctx, songID)
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

var _ ISongService = (*SongService)(nil)
