// Package seed loads portfolio items from a YAML fixture.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/folio-engine/folio-engine/pkg/models"
)

// Fixture is the document layout of a seed file.
type Fixture struct {
	Items []Item `yaml:"items"`
}

// Item is one portfolio item as written in a fixture.
type Item struct {
	Repo                  string         `yaml:"repo"`
	Title                 string         `yaml:"title"`
	ShortPitch            string         `yaml:"short_pitch"`
	LongDesc              string         `yaml:"long_desc"`
	Tags                  []string       `yaml:"tags"`
	Stack                 []string       `yaml:"stack"`
	Impact                string         `yaml:"impact"`
	GitHubURL             string         `yaml:"github_url"`
	GitHubStars           int            `yaml:"github_stars"`
	GitHubForks           int            `yaml:"github_forks"`
	GitHubLanguage        *string        `yaml:"github_language"`
	LastCommitDate        *time.Time     `yaml:"last_commit_date"`
	AIConfidenceScore     float64        `yaml:"ai_confidence_score"`
	Status                string         `yaml:"status"`
	HumanReviewed         bool           `yaml:"human_reviewed"`
	BusinessMetrics       map[string]any `yaml:"business_metrics"`
	TechnicalMetrics      map[string]any `yaml:"technical_metrics"`
	Achievements          []string       `yaml:"achievements"`
	ComplexityScore       *int           `yaml:"complexity_score"`
	TeamSize              *int           `yaml:"team_size"`
	ProjectDurationMonths *int           `yaml:"project_duration_months"`
	DemoURL               *string        `yaml:"demo_url"`
	LiveURL               *string        `yaml:"live_url"`
}

// Load decodes a fixture and converts it to portfolio items. Unknown keys
// are rejected so typos do not silently drop data.
func Load(r io.Reader) ([]*models.PortfolioItem, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fixture Fixture
	if err := dec.Decode(&fixture); err != nil {
		if errors.Is(err, io.EOF) {
			return []*models.PortfolioItem{}, nil
		}
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}

	items := make([]*models.PortfolioItem, 0, len(fixture.Items))
	seen := make(map[string]int, len(fixture.Items))
	for i, raw := range fixture.Items {
		item, err := raw.toModel()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if prev, dup := seen[item.Repo]; dup {
			return nil, fmt.Errorf("item %d: repo %q already defined by item %d", i, item.Repo, prev)
		}
		seen[item.Repo] = i
		items = append(items, item)
	}
	return items, nil
}

// LoadFile reads and decodes the fixture at path.
func LoadFile(path string) ([]*models.PortfolioItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return Load(bytes.NewReader(data))
}

func (it Item) toModel() (*models.PortfolioItem, error) {
	if it.Repo == "" {
		return nil, errors.New("repo is required")
	}
	status := models.StatusDraft
	if it.Status != "" {
		parsed, err := models.ParseStatus(it.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	if it.AIConfidenceScore < 0 || it.AIConfidenceScore > 1 {
		return nil, fmt.Errorf("ai_confidence_score %v is outside [0, 1]", it.AIConfidenceScore)
	}
	if it.ComplexityScore != nil && (*it.ComplexityScore < 1 || *it.ComplexityScore > 10) {
		return nil, fmt.Errorf("complexity_score %d is outside [1, 10]", *it.ComplexityScore)
	}

	return &models.PortfolioItem{
		Repo:                  it.Repo,
		Title:                 it.Title,
		ShortPitch:            it.ShortPitch,
		LongDesc:              it.LongDesc,
		Tags:                  nonNil(it.Tags),
		Stack:                 nonNil(it.Stack),
		Impact:                it.Impact,
		GitHubURL:             it.GitHubURL,
		GitHubStars:           it.GitHubStars,
		GitHubForks:           it.GitHubForks,
		GitHubLanguage:        it.GitHubLanguage,
		LastCommitDate:        it.LastCommitDate,
		AIConfidenceScore:     it.AIConfidenceScore,
		Status:                status,
		HumanReviewed:         it.HumanReviewed,
		BusinessMetrics:       nonNilMap(it.BusinessMetrics),
		TechnicalMetrics:      nonNilMap(it.TechnicalMetrics),
		Achievements:          nonNil(it.Achievements),
		ComplexityScore:       it.ComplexityScore,
		TeamSize:              it.TeamSize,
		ProjectDurationMonths: it.ProjectDurationMonths,
		DemoURL:               it.DemoURL,
		LiveURL:               it.LiveURL,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// Upserter stores one item keyed by repo.
type Upserter interface {
	Upsert(ctx context.Context, item *models.PortfolioItem) (int64, error)
}

// ScopeProvider opens a connection scope for the upserts.
type ScopeProvider interface {
	WithScope(ctx context.Context) (context.Context, func(), error)
}

// Apply upserts every item on one connection and returns the number stored.
// It stops at the first failure.
func Apply(ctx context.Context, scopes ScopeProvider, repo Upserter, items []*models.PortfolioItem, logger *zap.Logger) (int, error) {
	scoped, release, err := scopes.WithScope(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire database connection: %w", err)
	}
	defer release()

	for i, item := range items {
		id, err := repo.Upsert(scoped, item)
		if err != nil {
			return i, err
		}
		logger.Info("Seeded portfolio item",
			zap.Int64("id", id),
			zap.String("repo", item.Repo),
			zap.String("status", string(item.Status)))
	}
	return len(items), nil
}
