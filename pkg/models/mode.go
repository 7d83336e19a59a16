package models

import "time"

// DefaultModeKey is used when a request names no mode.
const DefaultModeKey = "cdi"

// PortfolioMode is a named display variant of the portfolio.
type PortfolioMode struct {
	ID           int64          `json:"id"`
	ModeKey      string         `json:"mode_key"`
	DisplayName  string         `json:"display_name"`
	Description  *string        `json:"description"`
	Icon         *string        `json:"icon"`
	ColorPrimary *string        `json:"color_primary"`
	IsDefault    bool           `json:"is_default"`
	IsActive     bool           `json:"is_active"`
	Settings     map[string]any `json:"settings"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ContentOverride is one active override row.
type ContentOverride struct {
	Field    string
	Value    string
	Priority int
}

// ContentOverrides is the response of the content override lookup. Overrides
// are never merged into the base entity.
type ContentOverrides struct {
	Mode        string            `json:"mode"`
	ContentType string            `json:"content_type"`
	ContentID   *int64            `json:"content_id,omitempty"`
	Overrides   map[string]string `json:"overrides"`
}

// MergeOverrides collapses rows to one value per field. Rows must be ordered
// by priority descending; the first row for a field wins.
func MergeOverrides(rows []ContentOverride) map[string]string {
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		if _, seen := out[r.Field]; !seen {
			out[r.Field] = r.Value
		}
	}
	return out
}

// ModeProjectFilters select projects for one mode.
type ModeProjectFilters struct {
	Mode         string
	FeaturedOnly bool
}
