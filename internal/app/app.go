package app

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go-payroll/internal/config"
	"go-payroll/internal/notification"
	"go-payroll/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const notifierDrainTimeout = 10 * time.Second

type infrastructure struct {
	db       *sql.DB
	gormDB   *gorm.DB
	rdb      *redis.Client
	writer   *kafkago.Writer
	notifier *notification.AsyncNotifier
}

// close drains queued notifications before the Kafka writer goes away.
func (i *infrastructure) close() {
	if i.notifier != nil {
		ctx, cancel := context.WithTimeout(context.Background(), notifierDrainTimeout)
		if err := i.notifier.Close(ctx); err != nil {
			zap.L().Named("app").Warn("notification queue not drained", zap.Error(err))
		}
		cancel()
	}
	if i.writer != nil {
		_ = i.writer.Close()
	}
	if i.rdb != nil {
		_ = i.rdb.Close()
	}
	if i.db != nil {
		_ = i.db.Close()
	}
}

// BuildApp connects infrastructure, migrates and registers every module on
// router. The returned func releases connections on shutdown.
func BuildApp(router *gin.Engine, cfg config.Config) (func(), error) {
	logger := zap.L().Named("app")

	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	infra := &infrastructure{db: sqlDB, gormDB: gormDB}
	logger.Info("database connection established")

	if cfg.AutoMigrate {
		if err := migrate(gormDB, cfg.MigrateHRTables); err != nil {
			infra.close()
			return nil, err
		}
	}

	if cfg.RedisAddr != "" {
		infra.rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.DBRetries)
		if err != nil {
			infra.close()
			return nil, err
		}
		logger.Info("redis connection established")
	} else {
		logger.Warn("REDIS_ADDR not set, idempotency and batch locks disabled")
	}

	if cfg.NotifyViaKafka && cfg.KafkaBroker != "" {
		infra.writer, err = connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.DBRetries)
		if err != nil {
			infra.close()
			return nil, err
		}
	}

	if strings.HasPrefix(cfg.PayslipPublicBaseURL, "/") {
		router.Static(cfg.PayslipPublicBaseURL, cfg.PayslipStorageDir)
	}

	// 2. Register Modules & Routes
	if err := registerModules(context.Background(), router, cfg, infra); err != nil {
		infra.close()
		return nil, err
	}

	return infra.close, nil
}
