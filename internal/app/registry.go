package app

import (
	"context"
	"fmt"

	"go-payroll/internal/bootstrap"
	"go-payroll/internal/compensation"
	"go-payroll/internal/config"
	"go-payroll/internal/directory"
	"go-payroll/internal/loan"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/middleware"
	"go-payroll/internal/notification"
	"go-payroll/internal/payrollbatch"
	"go-payroll/internal/payslip"
	"go-payroll/internal/ratetable"
	"go-payroll/internal/rbac"
	"go-payroll/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func registerModules(
	ctx context.Context,
	router *gin.Engine,
	cfg config.Config,
	infra *infrastructure,
) error {
	logger := zap.L()

	// --- Repositories ---
	rateTableRepo := ratetable.NewRepository(infra.gormDB)
	compensationRepo := compensation.NewRepository(infra.gormDB)
	loanRepo := loan.NewRepository(infra.gormDB)
	payslipRepo := payslip.NewRepository(infra.gormDB)
	batchRepo := payrollbatch.NewRepository(infra.gormDB)
	counterRepo := counter.NewRepository(infra.gormDB)
	outboxRepo := kafka.NewOutboxRepository(infra.gormDB)
	employeeDirectory := directory.NewRepository(infra.gormDB)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer(cfg.RBACPolicyPath)
	if err != nil {
		return fmt.Errorf("rbac enforcer: %w", err)
	}
	rbacService := rbac.NewService(enforcer, logger)

	// --- Services ---
	rateTableCache := ratetable.NewCache(rateTableRepo, logger)
	rateTableService := ratetable.NewService(rateTableRepo, rateTableCache, logger)
	compensationService := compensation.NewService(infra.db, compensationRepo, logger)
	loanService := loan.NewService(infra.db, loanRepo, logger)

	statutory, err := compensationService.ResolveStatutory(ctx)
	if err != nil {
		return fmt.Errorf("resolve statutory components (run cmd/importer to seed them): %w", err)
	}

	payslipService := payslip.NewService(payslip.Dependencies{
		DB:         infra.db,
		Repo:       payslipRepo,
		Counter:    counterRepo,
		Outbox:     outboxRepo,
		Ledger:     compensationService,
		Rates:      rateTableCache,
		Directory:  employeeDirectory,
		Attendance: employeeDirectory,
		Loans:      loanService,
		Notifier:   newNotifier(infra, cfg, logger),
		Statutory:  statutory,
		Audit:      bootstrap.NewStdoutAuditLogger(logger),
		Documents:  payslip.NewLocalDocumentStore(cfg.PayslipStorageDir, cfg.PayslipPublicBaseURL),
	}, logger)

	batchService := payrollbatch.NewService(payrollbatch.Dependencies{
		DB:          infra.db,
		Repo:        batchRepo,
		Outbox:      outboxRepo,
		Payslips:    payslipService,
		Directory:   employeeDirectory,
		Redis:       infra.rdb,
		Concurrency: cfg.BatchConcurrency,
	}, logger)

	// --- Handlers ---
	rateTableHandler := ratetable.NewHandler(rateTableService)
	compensationHandler := compensation.NewHandler(compensationService)
	loanHandler := loan.NewHandler(loanService)
	payslipHandler := payslip.NewHandler(payslipService)
	batchHandler := payrollbatch.NewHandlerWithRedis(batchService, infra.rdb)

	// --- Routes Registration ---
	router.Use(middleware.RequestID(), middleware.ContextLogger(logger))

	api := router.Group("/api/v1")
	api.Use(middleware.RateLimitByIP(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst))
	{
		ratetable.RegisterRoutes(api, rateTableHandler, rbacService)
		compensation.RegisterRoutes(api, compensationHandler, rbacService)
		loan.RegisterRoutes(api, loanHandler, rbacService)
		payslip.RegisterRoutes(api, payslipHandler, rbacService)
		payrollbatch.RegisterRoutes(api, batchHandler, rbacService, infra.rdb)
	}

	return nil
}

// newNotifier queues Kafka notifications behind a bounded buffer so a slow
// broker never holds up generation or lifecycle calls.
func newNotifier(infra *infrastructure, cfg config.Config, logger *zap.Logger) payslip.Notifier {
	if infra.writer == nil {
		return notification.NewLogNotifier(logger)
	}
	infra.notifier = notification.NewAsyncNotifier(
		notification.NewKafkaNotifier(infra.writer, logger),
		cfg.NotifyQueueSize,
		logger,
	)
	return infra.notifier
}
