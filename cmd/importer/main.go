package main

import (
	"context"
	"flag"

	"go-payroll/internal/app"
	"go-payroll/internal/config"
	"go-payroll/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	path := flag.String("file", "rate_tables.yaml", "YAML file with rate tables to publish")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunImporter(context.Background(), cfg, *path); err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}
}
