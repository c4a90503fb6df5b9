package seeder

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/simaogato/fundwise-backend/internal/domain"
)

// CatalogSeeder copies the fund dataset into a SQL-backed repository
type CatalogSeeder struct {
	source domain.FundSource
	repo   domain.FundRepository
	logger arbor.ILogger
}

// NewCatalogSeeder creates a new CatalogSeeder instance
func NewCatalogSeeder(source domain.FundSource, repo domain.FundRepository, logger arbor.ILogger) *CatalogSeeder {
	return &CatalogSeeder{
		source: source,
		repo:   repo,
		logger: logger,
	}
}

// Seed ensures every fund of the source exists in the repository
// If a fund doesn't exist, it creates it. Existing funds are left untouched.
// Returns the number of funds created.
func (s *CatalogSeeder) Seed(ctx context.Context) (int, error) {
	funds, err := s.source.LoadFunds(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load seed dataset: %w", err)
	}

	created := 0
	for _, fund := range funds {
		exists, err := s.repo.Exists(ctx, fund.SchemeName)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		// Validate before creating
		if err := fund.Validate(); err != nil {
			return created, err
		}

		if err := s.repo.Create(ctx, fund); err != nil {
			return created, err
		}
		created++
	}

	s.logger.Info().
		Int("dataset", len(funds)).
		Int("created", created).
		Msg("Fund catalog seeded")

	return created, nil
}
