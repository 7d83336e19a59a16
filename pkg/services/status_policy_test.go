package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/models"
)

func TestNewTransitionPolicy(t *testing.T) {
	p, err := NewTransitionPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyPermissive, p.Name())

	p, err = NewTransitionPolicy(PolicyLifecycle)
	require.NoError(t, err)
	assert.Equal(t, PolicyLifecycle, p.Name())

	_, err = NewTransitionPolicy("strict")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
}

func TestPermissive_AllowsEverything(t *testing.T) {
	for _, from := range models.PortfolioStatuses {
		for _, to := range models.PortfolioStatuses {
			assert.True(t, Permissive{}.Allow(from, to), "%s -> %s", from, to)
		}
	}
}

func TestLifecycle_Allow(t *testing.T) {
	tests := []struct {
		from, to models.PortfolioStatus
		want     bool
	}{
		{models.StatusDraft, models.StatusApproved, true},
		{models.StatusApproved, models.StatusPublished, true},
		{models.StatusPublished, models.StatusArchived, true},
		{models.StatusDraft, models.StatusArchived, true},
		{models.StatusApproved, models.StatusArchived, true},
		{models.StatusDraft, models.StatusDraft, true},
		{models.StatusDraft, models.StatusPublished, false},
		{models.StatusPublished, models.StatusDraft, false},
		{models.StatusArchived, models.StatusDraft, false},
		{models.StatusArchived, models.StatusPublished, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, Lifecycle{}.Allow(tt.from, tt.to))
		})
	}
}
