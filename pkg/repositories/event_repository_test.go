//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-engine/folio-engine/pkg/database"
	"github.com/folio-engine/folio-engine/pkg/models"
)

func ctxScope(t *testing.T, ctx context.Context) *database.Scope {
	t.Helper()
	scope, ok := database.GetScope(ctx)
	require.True(t, ok)
	return scope
}

func TestEventRepository_AppendAndListRecent(t *testing.T) {
	ctx := setupRepoTest(t, "portfolio_events")
	repo := NewEventRepository()

	for _, action := range []string{"first", "second", "third"} {
		_, err := repo.Append(ctx, &models.NewEvent{
			Source:  models.EventSourceManual,
			Repo:    ptr("a/repo"),
			Action:  action,
			Payload: map[string]any{"n": action},
			Status:  models.EventStatusOK,
		})
		require.NoError(t, err)
	}
	_, err := repo.Append(ctx, &models.NewEvent{Source: models.EventSourceManual, Action: "bare", Status: models.EventStatusOK})
	require.NoError(t, err)

	events, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "bare", events[0].Action)
	assert.Nil(t, events[0].Repo)
	assert.NotNil(t, events[0].Payload, "null payload normalizes to an empty object")
	assert.Equal(t, "third", events[1].Action)
	assert.Equal(t, "third", events[1].Payload["n"])
}

func TestEventRepository_ShareStats(t *testing.T) {
	ctx := setupRepoTest(t, "portfolio_events")
	repo := NewEventRepository()

	shares := []struct{ repo, platform string }{
		{"a/one", "linkedin"},
		{"a/one", "linkedin"},
		{"a/one", "twitter"},
		{"a/two", "stackoverflow"},
	}
	for _, s := range shares {
		_, err := repo.Append(ctx, &models.NewEvent{
			Source:  models.EventSourceSocialShare,
			Repo:    ptr(s.repo),
			Action:  s.platform + "_share",
			Payload: map[string]any{"platform": s.platform},
			Status:  models.EventStatusOK,
		})
		require.NoError(t, err)
	}
	_, err := repo.Append(ctx, &models.NewEvent{Source: models.EventSourceManual, Repo: ptr("a/one"), Action: "status_updated", Status: models.EventStatusOK})
	require.NoError(t, err)

	stats, err := repo.ShareStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalShares)
	require.Len(t, stats.ProjectStats, 2)
	assert.Equal(t, "a/one", *stats.ProjectStats[0].Repo)
	assert.Equal(t, int64(3), stats.ProjectStats[0].TotalShares)
	assert.Equal(t, int64(2), stats.ProjectStats[0].LinkedInShares)
	assert.Equal(t, int64(1), stats.ProjectStats[0].TwitterShares)
	require.Len(t, stats.PlatformStats, 3)
	assert.Equal(t, "linkedin", *stats.PlatformStats[0].Platform)
	assert.Equal(t, int64(2), stats.PlatformStats[0].Shares)
	assert.NotNil(t, stats.PlatformStats[0].LastShare)
}
