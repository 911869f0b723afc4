package services

import (
	"context"
	"errors"
	"sort"

	"bandmate.link/models"
	"bandmate.link/repositories"
)

// SongCoverage is the readiness verdict for one setlist entry.
type SongCoverage struct {
	Title       string              `json:"title"`
	ResourceURL string              `json:"resource_url"`
	Position    int                 `json:"position"`
	InCatalog   bool                `json:"in_catalog"`
	Required    []models.Capability `json:"required"`
	Missing     []models.Capability `json:"missing"`
}

// Covered reports whether every required capability is pledged.
func (c SongCoverage) Covered() bool { return len(c.Missing) == 0 }

// CoverageReport is the per-song gap map for a session.
type CoverageReport struct {
	SessionID    uint           `json:"session_id"`
	Songs        []SongCoverage `json:"songs"`
	FullyStaffed bool           `json:"fully_staffed"`
}

// ICoverageService computes which required capabilities are still uncovered.
type ICoverageService interface {
	ComputeCoverage(ctx context.Context, sessionID uint) (*CoverageReport, error)
}

type CoverageService struct {
	sessionRepo repositories.ISessionRepository
	songRepo    repositories.ISongRepository
}

func NewCoverageService() ICoverageService {
	return &CoverageService{
		sessionRepo: repositories.NewSessionRepository(),
		songRepo:    repositories.NewSongRepository(),
	}
}

func newCoverageServiceWith(sessionRepo repositories.ISessionRepository, songRepo repositories.ISongRepository) ICoverageService {
	return &CoverageService{sessionRepo: sessionRepo, songRepo: songRepo}
}

// ComputeCoverage recomputes the gap for every setlist entry from current
// state on every call; commitments change far more often than songs and a
// stale "covered" is worse than the recomputation cost (session-scale data is
// tens of rows).
//
// gap(song) = song.required_capabilities minus the union of every
// commitment's covered_capabilities.
//
// Setlist entries are title snapshots, so requirements resolve by title
// lookup against the catalog; an entry whose title no longer resolves (or a
// song with no declared requirements) has an empty gap and never blocks
// readiness. Duplicate catalog titles collide on the lookup (known
// limitation).
func (s *CoverageService) ComputeCoverage(ctx context.Context, sessionID uint) (*CoverageReport, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	covered := make(map[uint]bool)
	for _, commitment := range session.Commitments {
		for _, capability := range commitment.CoveredCapabilities {
			covered[capability.ID] = true
		}
	}

	report := &CoverageReport{
		SessionID:    sessionID,
		Songs:        make([]SongCoverage, 0, len(session.Songs)),
		FullyStaffed: true,
	}

	for _, entry := range session.Songs {
		coverage := SongCoverage{
			Title:       entry.Title,
			ResourceURL: entry.ResourceURL,
			Position:    entry.Position,
			Required:    []models.Capability{},
			Missing:     []models.Capability{},
		}

		song, err := s.songRepo.FindByTitle(ctx, entry.Title)
		switch {
		case err == nil:
			coverage.InCatalog = true
			coverage.Required = song.RequiredCapabilities
			for _, required := range song.RequiredCapabilities {
				if !covered[required.ID] {
					coverage.Missing = append(coverage.Missing, required)
				}
			}
		case errors.Is(err, repositories.ErrNotFound):
			// Snapshot title no longer in the catalog; nothing to require.
		default:
			return nil, err
		}

		sort.Slice(coverage.Missing, func(i, j int) bool {
			return coverage.Missing[i].Name < coverage.Missing[j].Name
		})
		if len(coverage.Missing) > 0 {
			report.FullyStaffed = false
		}
		report.Songs = append(report.Songs, coverage)
	}

	return report, nil
}

var _ ICoverageService = (*CoverageService)(nil)
