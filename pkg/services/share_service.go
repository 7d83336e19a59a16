package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/repositories"
	"github.com/folio-engine/folio-engine/pkg/share"
)

// ShareService builds social share links and records each share.
type ShareService interface {
	// ShareURL returns the redirect target for sharing item id on platform.
	// The share event is the operation: if it cannot be recorded, no URL is returned.
	ShareURL(ctx context.Context, platform string, id int64) (string, error)
}

type shareService struct {
	items    repositories.PortfolioItemRepository
	recorder EventRecorder
	now      func() time.Time
	logger   *zap.Logger
}

// NewShareService creates a ShareService.
func NewShareService(items repositories.PortfolioItemRepository, recorder EventRecorder, logger *zap.Logger) ShareService {
	return &shareService{
		items:    items,
		recorder: recorder,
		now:      time.Now,
		logger:   logger.Named("share-service"),
	}
}

var _ ShareService = (*shareService)(nil)

func (s *shareService) ShareURL(ctx context.Context, rawPlatform string, id int64) (string, error) {
	platform, err := share.ParsePlatform(rawPlatform)
	if err != nil {
		return "", err
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	target, err := share.BuildURL(platform, item)
	if err != nil {
		return "", err
	}

	repo := item.Repo
	err = s.recorder.Record(ctx, &models.NewEvent{
		Source: models.EventSourceSocialShare,
		Repo:   &repo,
		Action: platform.Action(),
		Payload: map[string]any{
			"item_id":   id,
			"platform":  string(platform),
			"shared_at": s.now().UTC().Format(time.RFC3339),
		},
		Status: models.EventStatusOK,
	})
	if err != nil {
		return "", err
	}

	s.logger.Debug("Share link generated",
		zap.Int64("item_id", id),
		zap.String("platform", string(platform)))
	return target, nil
}
