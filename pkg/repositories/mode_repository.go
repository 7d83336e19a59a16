package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/folio-engine/folio-engine/pkg/database"
	"github.com/folio-engine/folio-engine/pkg/jsonutil"
	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/sql"
)

// ModeRepository provides data access for portfolio modes and their content overrides.
type ModeRepository interface {
	// List returns modes with the default first, then by key.
	List(ctx context.Context, activeOnly bool) ([]*models.PortfolioMode, error)
	// Overrides returns active override rows by priority descending. A nil
	// contentID selects the type-wide overrides.
	Overrides(ctx context.Context, mode, contentType string, contentID *int64) ([]models.ContentOverride, error)
}

type modeRepository struct {
	inspector FilterInspector
}

// NewModeRepository creates a ModeRepository. inspector may be nil.
func NewModeRepository(inspector FilterInspector) ModeRepository {
	return &modeRepository{inspector: inspector}
}

var _ ModeRepository = (*modeRepository)(nil)

func (r *modeRepository) List(ctx context.Context, activeOnly bool) ([]*models.PortfolioMode, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	query, args := sql.NewBuilder(`SELECT id, mode_key, display_name, description, icon, color_primary,
		is_default, is_active, settings, created_at, updated_at FROM portfolio_modes`).
		AndIf(activeOnly, "is_active = TRUE").
		OrderBy("is_default DESC, mode_key ASC").
		Build()

	rows, err := scope.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query modes: %w", err)
	}
	defer rows.Close()

	modes := []*models.PortfolioMode{}
	for rows.Next() {
		var m models.PortfolioMode
		var settings []byte
		err := rows.Scan(
			&m.ID, &m.ModeKey, &m.DisplayName, &m.Description, &m.Icon, &m.ColorPrimary,
			&m.IsDefault, &m.IsActive, &settings, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mode: %w", err)
		}
		m.Settings = jsonutil.Object(settings)
		modes = append(modes, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating modes: %w", err)
	}
	return modes, nil
}

func (r *modeRepository) Overrides(ctx context.Context, mode, contentType string, contentID *int64) ([]models.ContentOverride, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	b := sql.NewBuilder(`SELECT override_field, override_value, priority FROM mode_content_overrides`,
		mode, contentType).
		And("mode_key = $1").
		And("content_type = $2").
		And("is_active = TRUE").
		Where("content_id = $%d", contentID).
		AndIf(contentID == nil, "content_id IS NULL").
		OrderBy("priority DESC, id ASC")
	if r.inspector != nil {
		filters := append([]sql.Filter{
			{Predicate: "mode_key = $1", Value: mode},
			{Predicate: "content_type = $2", Value: contentType},
		}, b.Filters()...)
		r.inspector.InspectFilters(ctx, "mode_content_overrides", filters)
	}

	query, args := b.Build()
	rows, err := scope.Conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query content overrides: %w", err)
	}
	overrides, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.ContentOverride])
	if err != nil {
		return nil, fmt.Errorf("failed to scan content overrides: %w", err)
	}
	if overrides == nil {
		overrides = []models.ContentOverride{}
	}
	return overrides, nil
}
