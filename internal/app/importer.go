package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go-payroll/internal/compensation"
	compensationerrors "go-payroll/internal/compensation/errors"
	"go-payroll/internal/config"
	"go-payroll/internal/ratetable"
	ratetableerrors "go-payroll/internal/ratetable/errors"
	"go-payroll/internal/shared/connection"

	"go.uber.org/zap"
)

// RunImporter seeds the statutory components and publishes every rate
// table in the YAML file at path.
func RunImporter(ctx context.Context, cfg config.Config, path string) error {
	logger := zap.L().Named("app.importer")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	reqs, err := ratetable.ParseImportFile(data)
	if err != nil {
		return err
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		if err := migrate(gormDB, cfg.MigrateHRTables); err != nil {
			return err
		}
	}

	compensationService := compensation.NewService(sqlDB, compensation.NewRepository(gormDB), logger)
	for _, req := range compensation.DefaultStatutoryComponents() {
		_, err := compensationService.CreateComponent(ctx, req)
		switch {
		case err == nil:
			logger.Info("statutory component seeded", zap.String("code", req.Code))
		case errors.Is(err, compensationerrors.ErrComponentCodeExists):
		default:
			return fmt.Errorf("seed %s: %w", req.Code, err)
		}
	}

	rateTableRepo := ratetable.NewRepository(gormDB)
	rateTableService := ratetable.NewService(rateTableRepo, ratetable.NewCache(rateTableRepo, logger), logger)
	for _, req := range reqs {
		resp, err := rateTableService.Publish(ctx, "importer", req)
		if errors.Is(err, ratetableerrors.ErrRateTableAlreadyPublished) {
			logger.Info("rate table already published, skipped", zap.Int("year", req.Year))
			continue
		}
		if err != nil {
			return fmt.Errorf("publish rate table %d: %w", req.Year, err)
		}
		logger.Info("rate table published", zap.Int("year", resp.Year), zap.Int("brackets", len(resp.Brackets)))
	}
	return nil
}
