package store

import (
	"context"

	"go.uber.org/zap"

	"intrinsic_valuation/pkg/core/config"
)

// FromConfig returns the PostgreSQL repository when a database URL is
// configured (creating the schema if needed) and the file repository
// otherwise. The returned func releases the connection pool.
func FromConfig(ctx context.Context, cfg config.Config, log *zap.Logger) (Repository, func(), error) {
	if cfg.Database.URL == "" {
		repo, err := NewFileRepo(cfg.Presets.Dir, log)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}

	pool, err := Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	repo := NewPresetRepo(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return repo, pool.Close, nil
}
