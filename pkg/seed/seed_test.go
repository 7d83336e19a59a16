package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/folio-engine/folio-engine/pkg/models"
)

const fixture = `
items:
  - repo: octo/folio
    title: Folio
    stack: [Python, React]
    business_metrics:
      roi_percentage: 40
    status: approved
    ai_confidence_score: 0.9
    github_language: Go
    last_commit_date: 2026-01-02T03:04:05Z
  - repo: octo/draft
`

func TestLoad(t *testing.T) {
	items, err := Load(strings.NewReader(fixture))
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "octo/folio", first.Repo)
	assert.Equal(t, []string{"Python", "React"}, first.Stack)
	assert.Equal(t, 40, first.BusinessMetrics["roi_percentage"])
	assert.Equal(t, models.StatusApproved, first.Status)
	require.NotNil(t, first.GitHubLanguage)
	assert.Equal(t, "Go", *first.GitHubLanguage)
	require.NotNil(t, first.LastCommitDate)
	assert.Equal(t, 2026, first.LastCommitDate.Year())

	second := items[1]
	assert.Equal(t, models.StatusDraft, second.Status)
	assert.NotNil(t, second.Tags)
	assert.NotNil(t, second.TechnicalMetrics)
}

func TestLoad_Empty(t *testing.T) {
	items, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"missing repo", "items:\n  - title: x\n", "repo is required"},
		{"bad status", "items:\n  - repo: a/b\n    status: live\n", "invalid status"},
		{"confidence", "items:\n  - repo: a/b\n    ai_confidence_score: 1.5\n", "ai_confidence_score"},
		{"complexity", "items:\n  - repo: a/b\n    complexity_score: 11\n", "complexity_score"},
		{"duplicate", "items:\n  - repo: a/b\n  - repo: a/b\n", "already defined"},
		{"unknown key", "items:\n  - repo: a/b\n    stars: 3\n", "stars"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

type fakeScopes struct{ released bool }

func (f *fakeScopes) WithScope(ctx context.Context) (context.Context, func(), error) {
	return ctx, func() { f.released = true }, nil
}

type fakeUpserter struct {
	repos  []string
	failOn string
}

func (f *fakeUpserter) Upsert(ctx context.Context, item *models.PortfolioItem) (int64, error) {
	if item.Repo == f.failOn {
		return 0, errors.New("constraint violation")
	}
	f.repos = append(f.repos, item.Repo)
	return int64(len(f.repos)), nil
}

func TestApply(t *testing.T) {
	items, err := Load(strings.NewReader(fixture))
	require.NoError(t, err)

	scopes := &fakeScopes{}
	repo := &fakeUpserter{}
	n, err := Apply(context.Background(), scopes, repo, items, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"octo/folio", "octo/draft"}, repo.repos)
	assert.True(t, scopes.released)
}

func TestApply_StopsOnFailure(t *testing.T) {
	items, err := Load(strings.NewReader(fixture))
	require.NoError(t, err)

	n, err := Apply(context.Background(), &fakeScopes{}, &fakeUpserter{failOn: "octo/draft"}, items, zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, 1, n)
}
