package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/repositories"
)

// ProfileService serves the owner's profile, career timeline, skills and links.
type ProfileService interface {
	Get(ctx context.Context) (*models.Profile, error)
	// Update applies a partial patch to the singleton profile.
	Update(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error)

	Timeline(ctx context.Context, filters models.TimelineFilters) ([]*models.TimelineEvent, error)
	CreateTimelineEvent(ctx context.Context, input *models.CreateTimelineEvent) (*models.TimelineEvent, error)

	Skills(ctx context.Context, filters models.SkillFilters) ([]models.Skill, error)
	GroupedSkills(ctx context.Context) (models.SkillGroups, error)

	SocialLinks(ctx context.Context, activeOnly bool) ([]*models.SocialLink, error)
}

type profileService struct {
	repo   repositories.ProfileRepository
	logger *zap.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(repo repositories.ProfileRepository, logger *zap.Logger) ProfileService {
	return &profileService{
		repo:   repo,
		logger: logger.Named("profile-service"),
	}
}

var _ ProfileService = (*profileService)(nil)

func (s *profileService) Get(ctx context.Context) (*models.Profile, error) {
	return s.repo.Get(ctx)
}

func (s *profileService) Update(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	assignments := update.Assignments()
	updated, err := s.repo.Update(ctx, current.ID, assignments)
	if err != nil {
		return nil, err
	}

	columns := make([]string, 0, len(assignments))
	for _, a := range assignments {
		columns = append(columns, a.Column)
	}
	s.logger.Info("Profile updated", zap.Int64("profile_id", updated.ID), zap.Strings("fields", columns))
	return updated, nil
}

func (s *profileService) Timeline(ctx context.Context, filters models.TimelineFilters) ([]*models.TimelineEvent, error) {
	return s.repo.ListTimeline(ctx, filters)
}

func (s *profileService) CreateTimelineEvent(ctx context.Context, input *models.CreateTimelineEvent) (*models.TimelineEvent, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	event, err := s.repo.CreateTimelineEvent(ctx, input)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Timeline event created", zap.Int64("event_id", event.ID), zap.String("category", event.Category))
	return event, nil
}

func (s *profileService) Skills(ctx context.Context, filters models.SkillFilters) ([]models.Skill, error) {
	return s.repo.ListSkills(ctx, filters)
}

func (s *profileService) GroupedSkills(ctx context.Context) (models.SkillGroups, error) {
	skills, err := s.repo.ListSkillsForGrouping(ctx)
	if err != nil {
		return nil, err
	}
	return models.GroupSkills(skills), nil
}

func (s *profileService) SocialLinks(ctx context.Context, activeOnly bool) ([]*models.SocialLink, error) {
	return s.repo.ListSocialLinks(ctx, activeOnly)
}
