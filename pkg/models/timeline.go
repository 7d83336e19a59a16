package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
)

// TimelineEvent is one career milestone.
type TimelineEvent struct {
	ID           int64          `json:"id"`
	Date         Date           `json:"date"`
	EndDate      *Date          `json:"end_date"`
	Title        string         `json:"title"`
	Description  *string        `json:"description"`
	Category     string         `json:"category"`
	Icon         *string        `json:"icon"`
	Metrics      map[string]any `json:"metrics"`
	Tags         []string       `json:"tags"`
	LinkURL      *string        `json:"link_url"`
	DisplayOrder int            `json:"display_order"`
	IsHighlight  bool           `json:"is_highlight"`
	CreatedAt    time.Time      `json:"created_at"`
}

// TimelineFilters are the optional timeline list filters.
type TimelineFilters struct {
	Category       *string
	HighlightsOnly bool
}

// CreateTimelineEvent is the body of POST /api/timeline.
type CreateTimelineEvent struct {
	Date         *Date          `json:"date"`
	EndDate      *Date          `json:"end_date"`
	Title        string         `json:"title"`
	Description  *string        `json:"description"`
	Category     string         `json:"category"`
	Icon         *string        `json:"icon"`
	Metrics      map[string]any `json:"metrics"`
	Tags         []string       `json:"tags"`
	LinkURL      *string        `json:"link_url"`
	DisplayOrder *int           `json:"display_order"`
	IsHighlight  *bool          `json:"is_highlight"`
}

// Validate checks required fields and applies defaults.
func (c *CreateTimelineEvent) Validate() error {
	if c.Date == nil {
		return fmt.Errorf("%w: date is required", apperrors.ErrBadRequest)
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrBadRequest)
	}
	if strings.TrimSpace(c.Category) == "" {
		return fmt.Errorf("%w: category is required", apperrors.ErrBadRequest)
	}
	if c.EndDate != nil && c.EndDate.Before(c.Date.Time) {
		return fmt.Errorf("%w: end_date is before date", apperrors.ErrBadRequest)
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.DisplayOrder == nil {
		zero := 0
		c.DisplayOrder = &zero
	}
	if c.IsHighlight == nil {
		no := false
		c.IsHighlight = &no
	}
	return nil
}
