package coupon

import (
	"context"
	"fmt"

	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// Importer loads coupon definition files and upserts them into the coupon
// collection. Usage counters are never written by an import, so re-importing
// a file is safe at any time.
type Importer struct {
	loader  Loader
	coupons repository.CouponRepository
	logger  zerolog.Logger
}

// NewImporter creates a new coupon importer.
func NewImporter(loader Loader, coupons repository.CouponRepository, logger zerolog.Logger) *Importer {
	return &Importer{
		loader:  loader,
		coupons: coupons,
		logger:  logger.With().Str("component", "coupon-importer").Logger(),
	}
}

// Import loads every given path and upserts all definitions. It returns the
// number of coupons imported.
func (i *Importer) Import(ctx context.Context, paths []string) (int, error) {
	imported := 0

	for _, path := range paths {
		coupons, err := i.loader.Load(ctx, path)
		if err != nil {
			return imported, fmt.Errorf("failed to load coupon definitions from %s: %w", path, err)
		}

		for idx := range coupons {
			if err := i.coupons.Upsert(ctx, &coupons[idx]); err != nil {
				return imported, fmt.Errorf("failed to import coupon %s: %w", coupons[idx].Code, err)
			}
			imported++
		}
	}

	i.logger.Info().
		Int("paths", len(paths)).
		Int("imported", imported).
		Msg("coupon import completed")

	return imported, nil
}
