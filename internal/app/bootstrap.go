package app

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/Spok95/driving-school-bot/internal/account"
	"github.com/Spok95/driving-school-bot/internal/config"
	"github.com/Spok95/driving-school-bot/internal/db"
	"github.com/Spok95/driving-school-bot/internal/metrics"
	"github.com/Spok95/driving-school-bot/internal/observability"
	"github.com/Spok95/driving-school-bot/internal/readiness"
)

type SeedFunc func(ctx context.Context, database *sql.DB, admin db.AdminSeed) (db.SeedResult, error)

// Bootstrap сидирует каталог и администратора, после чего открывает защёлку.
// Ошибка сидирования логируется и не мешает запуску: защёлка открывается в любом случае.
func Bootstrap(ctx context.Context, database *sql.DB, admin config.AdminConfig, seed SeedFunc, latch *readiness.Latch, log *zap.Logger) {
	defer latch.Open()

	res, err := runSeed(ctx, database, admin, seed)
	if err != nil {
		metrics.SeedRuns.WithLabelValues("failed").Inc()
		observability.CaptureWithTags(err, map[string]string{"op": "seed"})
		log.Error("seed failed", zap.Error(err))
		return
	}
	metrics.SeedRuns.WithLabelValues("ok").Inc()
	log.Info("seed done",
		zap.Int("license_types", res.CatalogSize),
		zap.Int64("removed_stale", res.RemovedStale),
		zap.Bool("admin_inserted", res.AdminInserted),
	)
}

func runSeed(ctx context.Context, database *sql.DB, admin config.AdminConfig, seed SeedFunc) (db.SeedResult, error) {
	hash, err := account.HashPassword(admin.Password)
	if err != nil {
		return db.SeedResult{}, err
	}
	return seed(ctx, database, db.AdminSeed{
		Email:        admin.Email,
		DNI:          admin.DNI,
		PasswordHash: hash,
		FirstName:    "Administrador",
		LastName:     "Sistema",
	})
}
