package models

import "time"

// PlatformShareStats counts shares per platform.
type PlatformShareStats struct {
	Platform  *string    `json:"platform"`
	Shares    int64      `json:"shares"`
	LastShare *time.Time `json:"last_share"`
}

// ProjectShareStats counts shares per repository.
type ProjectShareStats struct {
	Repo                *string `json:"repo"`
	TotalShares         int64   `json:"total_shares"`
	LinkedInShares      int64   `json:"linkedin_shares"`
	TwitterShares       int64   `json:"twitter_shares"`
	StackOverflowShares int64   `json:"stackoverflow_shares"`
}

// SocialAnalytics is the response of GET /api/social-analytics.
type SocialAnalytics struct {
	PlatformStats []PlatformShareStats `json:"platform_stats"`
	ProjectStats  []ProjectShareStats  `json:"project_stats"`
	TotalShares   int64                `json:"total_shares"`
}

// PortfolioExport is the JSON export envelope.
type PortfolioExport struct {
	Portfolio     []map[string]any `json:"portfolio"`
	GeneratedAt   string           `json:"generated_at"`
	TotalProjects int              `json:"total_projects"`
}

// ExportedFile is a rendered document ready to be sent.
type ExportedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
