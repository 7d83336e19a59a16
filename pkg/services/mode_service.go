package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/repositories"
)

// ModeService serves portfolio display modes and their per-mode content.
type ModeService interface {
	Modes(ctx context.Context, activeOnly bool) ([]*models.PortfolioMode, error)
	// ContentOverrides returns the merged overrides for one content type in
	// mode. A nil contentID selects the type-wide overrides.
	ContentOverrides(ctx context.Context, mode, contentType string, contentID *int64) (*models.ContentOverrides, error)
	// Projects returns the published projects targeting mode, by that mode's priority.
	Projects(ctx context.Context, filters models.ModeProjectFilters) ([]*models.Project, error)
}

type modeService struct {
	modes    repositories.ModeRepository
	showcase repositories.ShowcaseRepository
	logger   *zap.Logger
}

// NewModeService creates a ModeService.
func NewModeService(modes repositories.ModeRepository, showcase repositories.ShowcaseRepository, logger *zap.Logger) ModeService {
	return &modeService{
		modes:    modes,
		showcase: showcase,
		logger:   logger.Named("mode-service"),
	}
}

var _ ModeService = (*modeService)(nil)

func (s *modeService) Modes(ctx context.Context, activeOnly bool) ([]*models.PortfolioMode, error) {
	return s.modes.List(ctx, activeOnly)
}

func (s *modeService) ContentOverrides(ctx context.Context, mode, contentType string, contentID *int64) (*models.ContentOverrides, error) {
	if strings.TrimSpace(contentType) == "" {
		return nil, fmt.Errorf("%w: content_type is required", apperrors.ErrBadRequest)
	}
	if mode == "" {
		mode = models.DefaultModeKey
	}

	rows, err := s.modes.Overrides(ctx, mode, contentType, contentID)
	if err != nil {
		return nil, err
	}
	return &models.ContentOverrides{
		Mode:        mode,
		ContentType: contentType,
		ContentID:   contentID,
		Overrides:   models.MergeOverrides(rows),
	}, nil
}

func (s *modeService) Projects(ctx context.Context, filters models.ModeProjectFilters) ([]*models.Project, error) {
	if filters.Mode == "" {
		filters.Mode = models.DefaultModeKey
	}
	return s.showcase.ListModeProjects(ctx, filters)
}
