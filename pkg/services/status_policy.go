package services

import (
	"fmt"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/models"
)

// Status policy names.
const (
	PolicyPermissive = "permissive"
	PolicyLifecycle  = "lifecycle"
)

// TransitionPolicy decides which status changes are allowed.
type TransitionPolicy interface {
	Name() string
	Allow(from, to models.PortfolioStatus) bool
}

// NewTransitionPolicy returns the named policy.
func NewTransitionPolicy(name string) (TransitionPolicy, error) {
	switch name {
	case "", PolicyPermissive:
		return Permissive{}, nil
	case PolicyLifecycle:
		return Lifecycle{}, nil
	}
	return nil, fmt.Errorf("%w: unknown status policy %q", apperrors.ErrBadRequest, name)
}

// Permissive allows any status to follow any other.
type Permissive struct{}

func (Permissive) Name() string { return PolicyPermissive }

func (Permissive) Allow(_, _ models.PortfolioStatus) bool { return true }

// Lifecycle enforces draft -> approved -> published -> archived with no
// skipping and no going back. Archived is reachable from every state.
// Re-applying the current status is a no-op and allowed.
type Lifecycle struct{}

var lifecycleNext = map[models.PortfolioStatus]models.PortfolioStatus{
	models.StatusDraft:     models.StatusApproved,
	models.StatusApproved:  models.StatusPublished,
	models.StatusPublished: models.StatusArchived,
}

func (Lifecycle) Name() string { return PolicyLifecycle }

func (Lifecycle) Allow(from, to models.PortfolioStatus) bool {
	if from == to || to == models.StatusArchived {
		return true
	}
	return lifecycleNext[from] == to
}

var (
	_ TransitionPolicy = Permissive{}
	_ TransitionPolicy = Lifecycle{}
)
