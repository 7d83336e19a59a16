// Package repositories holds the PostgreSQL data access layer. Repositories
// are stateless; each call runs on the request connection carried by the
// context (see database.WithScope).
package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/sql"
)

// FilterInspector looks at the caller-supplied values bound into a list query.
// audit.SecurityAuditor implements it.
type FilterInspector interface {
	InspectFilters(ctx context.Context, source string, filters []sql.Filter) int
}

func inspectFilters(ctx context.Context, inspector FilterInspector, source string, b *sql.Builder) {
	if inspector == nil {
		return
	}
	inspector.InspectFilters(ctx, source, b.Filters())
}

// notFound maps pgx.ErrNoRows onto apperrors.ErrNotFound and wraps anything else.
func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

func dateFromPG(d pgtype.Date) *models.Date {
	if !d.Valid {
		return nil
	}
	date := models.NewDate(d.Time)
	return &date
}

func dateToPG(d *models.Date) pgtype.Date {
	if d == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time, Valid: true}
}
