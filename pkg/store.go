package pkg

import (
	"context"
	"errors"
	"fmt"

	"github.com/devcatalyst/intake-service/internal/config"
	"github.com/devcatalyst/intake-service/internal/repositories"
	"github.com/devcatalyst/intake-service/internal/repositories/excel"
	"github.com/devcatalyst/intake-service/internal/repositories/memory"
	"github.com/devcatalyst/intake-service/internal/repositories/postgres"
)

// ErrStoreNotConfigured is returned when the selected backend lacks the
// settings it needs.
var ErrStoreNotConfigured = errors.New("tabular store is not configured")

// OpenTabularStore builds the backend selected by STORE_BACKEND.
func OpenTabularStore(ctx context.Context, cfg *config.Config) (repositories.TabularStore, error) {
	switch cfg.StoreBackend {
	case config.StoreExcel:
		if cfg.WorkbookPath == "" {
			return nil, fmt.Errorf("%w: WORKBOOK_PATH is empty", ErrStoreNotConfigured)
		}
		return excel.Open(cfg.WorkbookPath, cfg.PrimarySheet)

	case config.StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("%w: DATABASE_URL is empty", ErrStoreNotConfigured)
		}
		db, err := InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		store := postgres.NewSheetPostgreSQL(db)
		if err := store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to migrate sheet tables: %w", err)
		}
		if err := ensureSheet(ctx, store, cfg.PrimarySheet); err != nil {
			return nil, err
		}
		return store, nil

	case config.StoreMemory:
		return memory.New(cfg.PrimarySheet), nil

	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrStoreNotConfigured, cfg.StoreBackend)
	}
}

func ensureSheet(ctx context.Context, store repositories.TabularStore, title string) error {
	if title == "" {
		return nil
	}
	sheets, err := store.ListSheets(ctx)
	if err != nil {
		return err
	}
	if _, ok := repositories.PrimarySheet(sheets, title); ok {
		return nil
	}
	return store.CreateSheet(ctx, title)
}
