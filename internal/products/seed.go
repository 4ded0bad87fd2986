package products

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// SeedCatalog returns the demo catalog with stable ids "1" and "2".
func SeedCatalog() []models.Product {
	img1 := "https://picsum.photos/seed/1/600/400"
	img2 := "https://picsum.photos/seed/2/600/400"
	return []models.Product{
		{
			ID:          "1",
			Name:        "Tênis Esportivo XYZ",
			Description: "Tênis confortável para corrida e passeio.",
			Price:       decimal.RequireFromString("299.90"),
			PriceSale:   decimal.NewNullDecimal(decimal.RequireFromString("249.90")),
			ImageURL:    &img1,
		},
		{
			ID:          "2",
			Name:        "Camiseta Casual ABC",
			Description: "Camiseta 100% algodão, várias cores.",
			Price:       decimal.RequireFromString("79.90"),
			ImageURL:    &img2,
		},
	}
}

// Seed inserts the catalog rows that are not stored yet. It keeps going after
// a failed row and returns every failure combined.
func Seed(ctx context.Context, repo Repository, logg *logger.Logger, catalog []models.Product) (int, error) {
	var (
		inserted int
		errs     error
	)
	for i := range catalog {
		p := catalog[i]
		existing, err := repo.FindByID(ctx, p.ID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("seed lookup %s: %w", p.ID, err))
			continue
		}
		if existing != nil {
			continue
		}
		if _, err := repo.Create(ctx, &p); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("seed insert %s: %w", p.ID, err))
			continue
		}
		inserted++
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "inserted", inserted), "catalog seed finished")
	}
	return inserted, errs
}
