// Package models contains domain types for folio-engine.
package models

import (
	"fmt"
	"time"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
)

// PortfolioStatus is the review state of a portfolio item.
type PortfolioStatus string

const (
	StatusDraft     PortfolioStatus = "draft"
	StatusApproved  PortfolioStatus = "approved"
	StatusPublished PortfolioStatus = "published"
	StatusArchived  PortfolioStatus = "archived"
)

// PortfolioStatuses lists every valid status in lifecycle order.
var PortfolioStatuses = []PortfolioStatus{StatusDraft, StatusApproved, StatusPublished, StatusArchived}

// Valid reports whether s is one of PortfolioStatuses.
func (s PortfolioStatus) Valid() bool {
	for _, v := range PortfolioStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (PortfolioStatus, error) {
	s := PortfolioStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q (want one of draft, approved, published, archived)", apperrors.ErrInvalidStatus, raw)
	}
	return s, nil
}

// ExportableStatuses are the statuses included in exports and the summary document.
var ExportableStatuses = []string{string(StatusApproved), string(StatusPublished)}

// PortfolioItem is a project generated from a GitHub repository and reviewed
// before publication.
type PortfolioItem struct {
	ID                    int64           `json:"id"`
	Repo                  string          `json:"repo"`
	Title                 string          `json:"title"`
	ShortPitch            string          `json:"short_pitch"`
	LongDesc              string          `json:"long_desc"`
	Tags                  []string        `json:"tags"`
	Stack                 []string        `json:"stack"`
	Impact                string          `json:"impact"`
	GitHubURL             string          `json:"github_url"`
	GitHubStars           int             `json:"github_stars"`
	GitHubForks           int             `json:"github_forks"`
	GitHubLanguage        *string         `json:"github_language"`
	LastCommitDate        *time.Time      `json:"last_commit_date"`
	AIConfidenceScore     float64         `json:"ai_confidence_score"`
	Status                PortfolioStatus `json:"status"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	HumanReviewed         bool            `json:"human_reviewed"`
	BusinessMetrics       map[string]any  `json:"business_metrics"`
	TechnicalMetrics      map[string]any  `json:"technical_metrics"`
	Achievements          []string        `json:"achievements"`
	ComplexityScore       *int            `json:"complexity_score"`
	TeamSize              *int            `json:"team_size"`
	ProjectDurationMonths *int            `json:"project_duration_months"`
	DemoURL               *string         `json:"demo_url"`
	LiveURL               *string         `json:"live_url"`
}

// Language returns the GitHub language or "" when unknown.
func (p *PortfolioItem) Language() string {
	if p.GitHubLanguage == nil {
		return ""
	}
	return *p.GitHubLanguage
}

// DefaultPortfolioLimit is the list size when the caller gives none.
const DefaultPortfolioLimit = 50

// PortfolioFilters are the optional list filters. Nil fields are not applied.
type PortfolioFilters struct {
	Status        *PortfolioStatus
	Language      *string
	MinConfidence *float64
	Limit         int
}

// LanguageCount is one entry of the language histogram.
type LanguageCount struct {
	Language string `json:"language"`
	Count    int64  `json:"count"`
}

// PortfolioStats aggregates the whole catalog.
type PortfolioStats struct {
	TotalProjects     int64           `json:"total_projects"`
	ApprovedProjects  int64           `json:"approved_projects"`
	PublishedProjects int64           `json:"published_projects"`
	DraftProjects     int64           `json:"draft_projects"`
	ArchivedProjects  int64           `json:"archived_projects"`
	AvgConfidence     float64         `json:"avg_confidence"`
	TotalStars        int64           `json:"total_stars"`
	TopLanguages      []LanguageCount `json:"top_languages"`
}

// StatusUpdateResult is returned by a successful status change.
type StatusUpdateResult struct {
	Message       string          `json:"message"`
	ItemID        int64           `json:"item_id"`
	Status        PortfolioStatus `json:"status"`
	AuditRecorded bool            `json:"audit_recorded"`
}
