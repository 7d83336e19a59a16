//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/folio-engine/folio-engine/pkg/models"
	"github.com/folio-engine/folio-engine/pkg/testhelpers"
)

// setupRepoTest returns a scoped context on a clean database.
func setupRepoTest(t *testing.T, tables ...string) context.Context {
	t.Helper()
	testDB := testhelpers.GetTestDB(t)
	testDB.Truncate(t, tables...)
	return testDB.Scope(t)
}

func ptr[T any](v T) *T {
	return &v
}

func seedItem(t *testing.T, ctx context.Context, repo PortfolioItemRepository, item models.PortfolioItem) int64 {
	t.Helper()
	id, err := repo.Upsert(ctx, &item)
	require.NoError(t, err)
	return id
}
