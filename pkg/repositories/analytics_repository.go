package repositories

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/database"
	"github.com/folio-engine/folio-engine/pkg/jsonutil"
	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/sql"
)

// AnalyticsRepository stores visitor telemetry and reads it back in aggregate.
type AnalyticsRepository interface {
	CreateEvent(ctx context.Context, event *models.AnalyticsEvent) (int64, error)
	CreateSession(ctx context.Context, id uuid.UUID, session *models.VisitorSession) error
	// UpdateSession applies counter increments, flags and the bounded
	// modes_viewed append, and stamps last_seen_at.
	UpdateSession(ctx context.Context, id uuid.UUID, update models.SessionUpdate) error
	Summary(ctx context.Context, filter models.AnalyticsSummaryFilter) (*models.AnalyticsSummary, error)
	// ModeComparison returns the rows of the mode_performance_comparison view.
	ModeComparison(ctx context.Context) ([]map[string]any, error)
}

type analyticsRepository struct {
	inspector FilterInspector
}

// NewAnalyticsRepository creates an AnalyticsRepository. inspector may be nil.
func NewAnalyticsRepository(inspector FilterInspector) AnalyticsRepository {
	return &analyticsRepository{inspector: inspector}
}

var _ AnalyticsRepository = (*analyticsRepository)(nil)

// appendModeExpr appends the bound mode unless it is already present or the
// array is full.
var appendModeExpr = "modes_viewed = CASE WHEN $%[1]d::TEXT = ANY(modes_viewed) OR cardinality(modes_viewed) >= " +
	strconv.Itoa(models.MaxModesViewed) +
	" THEN modes_viewed ELSE array_append(modes_viewed, $%[1]d::TEXT) END"

func (r *analyticsRepository) CreateEvent(ctx context.Context, event *models.AnalyticsEvent) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no database scope in context")
	}

	var metadata any
	if event.Metadata != nil {
		metadata = event.Metadata
	}

	var id int64
	err := scope.Conn.QueryRow(ctx, `
		INSERT INTO analytics_events (
			session_id, event_type, event_category, event_label, event_value, portfolio_mode,
			page_url, referrer_url, target_type, target_id, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		event.SessionID, event.EventType, event.EventCategory, event.EventLabel, event.EventValue,
		event.PortfolioMode, event.PageURL, event.ReferrerURL, event.TargetType, event.TargetID, metadata,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to store analytics event: %w", err)
	}
	return id, nil
}

func (r *analyticsRepository) CreateSession(ctx context.Context, id uuid.UUID, session *models.VisitorSession) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	_, err := scope.Conn.Exec(ctx, `
		INSERT INTO visitor_sessions (
			id, landing_page, landing_mode, referrer_source, utm_source, utm_medium, utm_campaign,
			user_agent, device_type, browser, os, screen_resolution, ip_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		id, session.LandingPage, session.LandingMode, session.ReferrerSource, session.UTMSource,
		session.UTMMedium, session.UTMCampaign, session.UserAgent, session.DeviceType,
		session.Browser, session.OS, session.ScreenResolution, session.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to create visitor session: %w", err)
	}
	return nil
}

func (r *analyticsRepository) UpdateSession(ctx context.Context, id uuid.UUID, update models.SessionUpdate) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no database scope in context")
	}

	u := sql.NewUpdate("visitor_sessions")
	for _, column := range update.SortedIncrements() {
		u.SetExpr(column+" = "+column+" + $%d", update.Increments[column])
	}
	for _, column := range update.SortedFlags() {
		u.Set(column, update.Flags[column])
	}
	if update.ModeViewed != nil {
		u.SetExpr(appendModeExpr, *update.ModeViewed)
	}
	query, args, err := u.SetRaw("last_seen_at = NOW()").
		Where("id = $%d", id).
		Build()
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrEmptyUpdate, err)
	}

	tag, err := scope.Conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update visitor session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("visitor session %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *analyticsRepository) Summary(ctx context.Context, filter models.AnalyticsSummaryFilter) (*models.AnalyticsSummary, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	b := sql.NewBuilder(`
		SELECT
			COUNT(DISTINCT session_id),
			COUNT(*),
			COUNT(DISTINCT CASE WHEN event_type = 'contact' THEN session_id END),
			COUNT(DISTINCT CASE WHEN event_type = 'cv_download' THEN session_id END),
			COALESCE(AVG(CASE WHEN event_type = 'page_view' THEN 1 ELSE 0 END), 0)::DOUBLE PRECISION
		FROM analytics_events`, filter.Days).
		And("created_at >= CURRENT_DATE - make_interval(days => $1)").
		Where("portfolio_mode = $%d", filter.Mode)
	inspectFilters(ctx, r.inspector, "analytics_events", b)

	query, args := b.Build()
	summary := &models.AnalyticsSummary{Days: filter.Days, Mode: filter.Mode}
	err := scope.Conn.QueryRow(ctx, query, args...).Scan(
		&summary.TotalSessions,
		&summary.TotalEvents,
		&summary.Contacts,
		&summary.CVDownloads,
		&summary.AvgPageViews,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute analytics summary: %w", err)
	}
	return summary, nil
}

func (r *analyticsRepository) ModeComparison(ctx context.Context) ([]map[string]any, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	rows, err := scope.Conn.Query(ctx, "SELECT * FROM mode_performance_comparison ORDER BY mode_key")
	if err != nil {
		return nil, fmt.Errorf("failed to query mode comparison: %w", err)
	}
	raw, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("failed to scan mode comparison: %w", err)
	}
	return jsonutil.NormalizeRows(raw, jsonutil.Options{}), nil
}
