//go:build integration

package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/models"
)

func TestProfileRepository_GetAndUpdate(t *testing.T) {
	ctx := setupRepoTest(t, "profile")
	repo := NewProfileRepository(nil)

	_, err := repo.Get(ctx)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = ctxScope(t, ctx).Conn.Exec(ctx,
		`INSERT INTO profile (full_name, title, hero_pitch, location) VALUES ('Ada', 'Engineer', 'Builds things', 'Paris')`)
	require.NoError(t, err)

	p, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.FullName)

	updated, err := repo.Update(ctx, p.ID, []models.ColumnValue{
		{Column: "title", Value: "Staff Engineer"},
		{Column: "location", Value: nil},
	})
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", updated.Title)
	assert.Nil(t, updated.Location)
	assert.Equal(t, "Ada", updated.FullName)

	_, err = repo.Update(ctx, p.ID, nil)
	assert.Error(t, err)
}

func TestProfileRepository_Timeline(t *testing.T) {
	ctx := setupRepoTest(t, "timeline_events")
	repo := NewProfileRepository(nil)

	jan := models.NewDate(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	jun := models.NewDate(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))

	inputs := []*models.CreateTimelineEvent{
		{Date: &jun, Title: "Launch", Category: "work", IsHighlight: ptr(true)},
		{Date: &jan, Title: "Joined", Category: "work", Metrics: map[string]any{"team": 5}},
		{Date: &jan, Title: "Certified", Category: "education"},
	}
	for _, in := range inputs {
		require.NoError(t, in.Validate())
		created, err := repo.CreateTimelineEvent(ctx, in)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.NotNil(t, created.Tags)
	}

	all, err := repo.ListTimeline(ctx, models.TimelineFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2023-01-01", all[0].Date.String())
	assert.Equal(t, "Launch", all[2].Title)

	work, err := repo.ListTimeline(ctx, models.TimelineFilters{Category: ptr("work"), HighlightsOnly: true})
	require.NoError(t, err)
	require.Len(t, work, 1)
	assert.Equal(t, "Launch", work[0].Title)
}

func TestProfileRepository_SkillsAndLinks(t *testing.T) {
	ctx := setupRepoTest(t, "skills", "social_links")
	repo := NewProfileRepository(nil)

	_, err := ctxScope(t, ctx).Conn.Exec(ctx, `
		INSERT INTO skills (name, category, subcategory, proficiency_level, is_primary) VALUES
			('Go', 'backend', 'languages', 5, TRUE),
			('SQL', 'backend', NULL, 4, FALSE),
			('React', 'frontend', 'frameworks', 3, TRUE);
		INSERT INTO social_links (platform, url, display_order, is_active) VALUES
			('github', 'https://github.com/ada', 2, TRUE),
			('linkedin', 'https://linkedin.com/in/ada', 1, TRUE),
			('old', 'https://example.com', 0, FALSE)`)
	require.NoError(t, err)

	skills, err := repo.ListSkills(ctx, models.SkillFilters{Category: ptr("backend")})
	require.NoError(t, err)
	require.Len(t, skills, 2)
	assert.Equal(t, "Go", skills[0].Name)

	primary, err := repo.ListSkills(ctx, models.SkillFilters{PrimaryOnly: true})
	require.NoError(t, err)
	assert.Len(t, primary, 2)

	grouped, err := repo.ListSkillsForGrouping(ctx)
	require.NoError(t, err)
	groups := models.GroupSkills(grouped)
	assert.Len(t, groups["backend"][models.OtherSubcategory], 1)
	assert.Len(t, groups["frontend"]["frameworks"], 1)

	links, err := repo.ListSocialLinks(ctx, true)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "linkedin", links[0].Platform)

	all, err := repo.ListSocialLinks(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
