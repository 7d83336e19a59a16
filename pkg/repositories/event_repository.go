package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/folio-engine/folio-engine/pkg/database"
	"github.com/folio-engine/folio-engine/pkg/jsonutil"
	"github.com/folio-engine/folio-engine/pkg/models"
)

// EventRepository provides data access for the append-only portfolio event log.
type EventRepository interface {
	// Append inserts one event and returns its id.
	Append(ctx context.Context, event *models.NewEvent) (int64, error)
	// ListRecent returns the newest events first.
	ListRecent(ctx context.Context, limit int) ([]*models.PortfolioEvent, error)
	// ShareStats aggregates social share events by platform and by repository.
	ShareStats(ctx context.Context) (*models.SocialAnalytics, error)
}

type eventRepository struct{}

// NewEventRepository creates a new EventRepository.
func NewEventRepository() EventRepository {
	return &eventRepository{}
}

var _ EventRepository = (*eventRepository)(nil)

func (r *eventRepository) Append(ctx context.Context, event *models.NewEvent) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no database scope in context")
	}

	var payload any
	if event.Payload != nil {
		payload = event.Payload
	}

	var id int64
	err := scope.Conn.QueryRow(ctx, `
		INSERT INTO portfolio_events (source, repo, action, payload, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		event.Source, event.Repo, event.Action, payload, event.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to append %s event: %w", event.Action, err)
	}
	return id, nil
}

func (r *eventRepository) ListRecent(ctx context.Context, limit int) ([]*models.PortfolioEvent, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	rows, err := scope.Conn.Query(ctx, `
		SELECT id, ts, source, repo, action, payload, status
		FROM portfolio_events
		ORDER BY ts DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio events: %w", err)
	}
	defer rows.Close()

	events := []*models.PortfolioEvent{}
	for rows.Next() {
		var e models.PortfolioEvent
		var payload []byte
		if err := rows.Scan(&e.ID, &e.TS, &e.Source, &e.Repo, &e.Action, &payload, &e.Status); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio event: %w", err)
		}
		e.Payload = jsonutil.Object(payload)
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio events: %w", err)
	}
	return events, nil
}

func (r *eventRepository) ShareStats(ctx context.Context) (*models.SocialAnalytics, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	rows, err := scope.Conn.Query(ctx, `
		SELECT payload->>'platform' AS platform, COUNT(*) AS shares, MAX(ts) AS last_share
		FROM portfolio_events
		WHERE source = 'social_share' AND action LIKE '%\_share'
		GROUP BY payload->>'platform'
		ORDER BY shares DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query platform share stats: %w", err)
	}
	platforms, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.PlatformShareStats])
	if err != nil {
		return nil, fmt.Errorf("failed to scan platform share stats: %w", err)
	}

	rows, err = scope.Conn.Query(ctx, `
		SELECT
			repo,
			COUNT(*) AS total_shares,
			COUNT(*) FILTER (WHERE payload->>'platform' = 'linkedin'),
			COUNT(*) FILTER (WHERE payload->>'platform' = 'twitter'),
			COUNT(*) FILTER (WHERE payload->>'platform' = 'stackoverflow')
		FROM portfolio_events
		WHERE source = 'social_share' AND action LIKE '%\_share'
		GROUP BY repo
		ORDER BY total_shares DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query project share stats: %w", err)
	}
	projects, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.ProjectShareStats])
	if err != nil {
		return nil, fmt.Errorf("failed to scan project share stats: %w", err)
	}

	result := &models.SocialAnalytics{
		PlatformStats: platforms,
		ProjectStats:  projects,
	}
	if result.PlatformStats == nil {
		result.PlatformStats = []models.PlatformShareStats{}
	}
	if result.ProjectStats == nil {
		result.ProjectStats = []models.ProjectShareStats{}
	}
	for _, p := range result.PlatformStats {
		result.TotalShares += p.Shares
	}
	return result, nil
}
