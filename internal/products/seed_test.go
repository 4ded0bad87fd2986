package products

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRepository(newTestDB(t))

	inserted, err := Seed(ctx, repo, nil, SeedCatalog())
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = Seed(ctx, repo, nil, SeedCatalog())
	require.NoError(t, err)
	assert.Zero(t, inserted)

	first, err := repo.FindByID(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, first.PriceSale.Valid)
	assert.Equal(t, "249.9", first.PriceSale.Decimal.String())

	rows, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2", rows[0].ID, "Camiseta sorts before Tênis")
}
