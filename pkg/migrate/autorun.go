package migrate

import (
	"context"
	"fmt"

	"github.com/mygroup/mygroup-backend/pkg/config"
	"github.com/mygroup/mygroup-backend/pkg/db"
	"github.com/mygroup/mygroup-backend/pkg/logger"
)

// MaybeRunDev applies migrations at boot when the app runs in dev mode with the
// auto-migrate flag, or whenever the embedded SQLite driver is selected.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !shouldAutoRun(cfg) {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	dialect := client.Dialect()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": dialect})
	logg.Info(ctx, "running goose migrations (auto-run)")

	if err := Up(ctx, sqlDB, dialect); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}

func shouldAutoRun(cfg *config.Config) bool {
	if cfg == nil {
		return false
	}
	if cfg.DB.IsSQLite() {
		return true
	}
	return cfg.App.IsDev() && cfg.FeatureFlags.AutoMigrate
}
