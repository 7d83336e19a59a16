package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
)

// AnalyticsEvent is the body of POST /api/analytics/event.
type AnalyticsEvent struct {
	SessionID     string         `json:"session_id"`
	EventType     string         `json:"event_type"`
	EventCategory *string        `json:"event_category"`
	EventLabel    *string        `json:"event_label"`
	EventValue    *int           `json:"event_value"`
	PortfolioMode *string        `json:"portfolio_mode"`
	PageURL       *string        `json:"page_url"`
	ReferrerURL   *string        `json:"referrer_url"`
	TargetType    *string        `json:"target_type"`
	TargetID      *int64         `json:"target_id"`
	Metadata      map[string]any `json:"metadata"`
}

// Validate checks the required fields.
func (e AnalyticsEvent) Validate() error {
	if strings.TrimSpace(e.SessionID) == "" {
		return fmt.Errorf("%w: session_id is required", apperrors.ErrBadRequest)
	}
	if strings.TrimSpace(e.EventType) == "" {
		return fmt.Errorf("%w: event_type is required", apperrors.ErrBadRequest)
	}
	return nil
}

// VisitorSession is the body of POST /api/analytics/session. Every field is optional.
type VisitorSession struct {
	LandingPage      *string `json:"landing_page"`
	LandingMode      *string `json:"landing_mode"`
	ReferrerSource   *string `json:"referrer_source"`
	UTMSource        *string `json:"utm_source"`
	UTMMedium        *string `json:"utm_medium"`
	UTMCampaign      *string `json:"utm_campaign"`
	UserAgent        *string `json:"user_agent"`
	DeviceType       *string `json:"device_type"`
	Browser          *string `json:"browser"`
	OS               *string `json:"os"`
	ScreenResolution *string `json:"screen_resolution"`
	IPAddress        *string `json:"ip_address"`
}

// SessionCreated is returned when a session is opened.
type SessionCreated struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

// MaxModesViewed bounds the modes_viewed array.
const MaxModesViewed = 16

// Session counter columns incremented by a session update.
var sessionCounters = []string{"page_views", "projects_viewed", "blog_posts_viewed", "mode_switches"}

// Session flag columns set by a session update.
var sessionFlags = []string{"contact_submitted", "cv_downloaded"}

// SessionUpdate is a validated PATCH of a visitor session. Maps are keyed by
// whitelisted column name.
type SessionUpdate struct {
	Increments map[string]int
	Flags      map[string]bool
	ModeViewed *string
}

// Empty reports whether the update changes nothing.
func (u SessionUpdate) Empty() bool {
	return len(u.Increments) == 0 && len(u.Flags) == 0 && u.ModeViewed == nil
}

// SortedIncrements returns counter columns in a stable order.
func (u SessionUpdate) SortedIncrements() []string {
	return sortedKeys(u.Increments)
}

// SortedFlags returns flag columns in a stable order.
func (u SessionUpdate) SortedFlags() []string {
	return sortedKeys(u.Flags)
}

// ParseSessionUpdate validates a raw PATCH body. Unknown keys, wrong types,
// nulls and negative increments are rejected; an empty body is ErrEmptyUpdate.
func ParseSessionUpdate(body []byte) (SessionUpdate, error) {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&raw); err != nil {
		return SessionUpdate{}, fmt.Errorf("%w: invalid JSON body: %v", apperrors.ErrBadRequest, err)
	}

	u := SessionUpdate{Increments: map[string]int{}, Flags: map[string]bool{}}
	for key, value := range raw {
		if isJSONNull(value) && (contains(sessionCounters, key) || contains(sessionFlags, key)) {
			return SessionUpdate{}, fmt.Errorf("%w: %s must not be null", apperrors.ErrBadRequest, key)
		}
		switch {
		case contains(sessionCounters, key):
			var n int
			if err := json.Unmarshal(value, &n); err != nil {
				return SessionUpdate{}, fmt.Errorf("%w: %s must be an integer", apperrors.ErrBadRequest, key)
			}
			if n < 0 {
				return SessionUpdate{}, fmt.Errorf("%w: %s must not be negative", apperrors.ErrBadRequest, key)
			}
			u.Increments[key] = n
		case contains(sessionFlags, key):
			var b bool
			if err := json.Unmarshal(value, &b); err != nil {
				return SessionUpdate{}, fmt.Errorf("%w: %s must be a boolean", apperrors.ErrBadRequest, key)
			}
			u.Flags[key] = b
		case key == "modes_viewed":
			var mode string
			if err := json.Unmarshal(value, &mode); err != nil || strings.TrimSpace(mode) == "" {
				return SessionUpdate{}, fmt.Errorf("%w: modes_viewed must be a non-empty string", apperrors.ErrBadRequest)
			}
			u.ModeViewed = &mode
		default:
			return SessionUpdate{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownField, key)
		}
	}

	if u.Empty() {
		return SessionUpdate{}, apperrors.ErrEmptyUpdate
	}
	return u, nil
}

// Analytics summary window bounds, in days.
const (
	DefaultSummaryDays = 7
	MinSummaryDays     = 1
	MaxSummaryDays     = 90
)

// AnalyticsSummaryFilter selects the summary window.
type AnalyticsSummaryFilter struct {
	Mode *string
	Days int
}

// Validate enforces the window bounds.
func (f AnalyticsSummaryFilter) Validate() error {
	if f.Days < MinSummaryDays || f.Days > MaxSummaryDays {
		return fmt.Errorf("%w: days must be between %d and %d", apperrors.ErrBadRequest, MinSummaryDays, MaxSummaryDays)
	}
	return nil
}

// AnalyticsSummary aggregates analytics events over a window.
type AnalyticsSummary struct {
	TotalSessions int64   `json:"total_sessions"`
	TotalEvents   int64   `json:"total_events"`
	Contacts      int64   `json:"contacts"`
	CVDownloads   int64   `json:"cv_downloads"`
	AvgPageViews  float64 `json:"avg_page_views"`
	Days          int     `json:"days"`
	Mode          *string `json:"mode"`
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
