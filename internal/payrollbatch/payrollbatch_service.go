package payrollbatch

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-payroll/internal/messaging/kafka"
	payrollbatcherrors "go-payroll/internal/payrollbatch/errors"
	"go-payroll/internal/payslip"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dateLayout = "2006-01-02"

	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

//go:generate mockgen -source=payrollbatch_service.go -destination=mock/payrollbatch_service_mock.go -package=mock
type Service interface {
	Run(ctx context.Context, actorID string, req RunBatchRequest) (BatchResponse, error)
	GetBatch(ctx context.Context, id string) (BatchResponse, error)
	ListBatches(ctx context.Context, req ListBatchesRequest) ([]BatchResponse, int64, error)
}

// PayslipGenerator is the part of the payslip service a batch drives.
type PayslipGenerator interface {
	Generate(ctx context.Context, req payslip.GenerateRequest) (payslip.PayslipResponse, error)
	GetByPeriod(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (payslip.PayslipResponse, error)
}

// Dependencies of the batch runner. Redis and Outbox are optional.
type Dependencies struct {
	DB          *sql.DB
	Repo        Repository
	Outbox      kafka.OutboxRepository
	Payslips    PayslipGenerator
	Directory   payslip.EmployeeDirectory
	Redis       *redis.Client
	Concurrency int
	Clock       func() time.Time
}

type service struct {
	db          *sql.DB
	repo        Repository
	outbox      kafka.OutboxRepository
	payslips    PayslipGenerator
	directory   payslip.EmployeeDirectory
	rdb         *redis.Client
	concurrency int
	now         func() time.Time
	logger      *zap.Logger
}

func NewService(deps Dependencies, logger ...*zap.Logger) Service {
	l := zap.L().Named("payrollbatch.runner")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollbatch.runner")
	}

	s := &service{
		db:          deps.DB,
		repo:        deps.Repo,
		outbox:      deps.Outbox,
		payslips:    deps.Payslips,
		directory:   deps.Directory,
		rdb:         deps.Redis,
		concurrency: deps.Concurrency,
		now:         deps.Clock,
		logger:      l,
	}
	if s.concurrency < 1 {
		s.concurrency = 1
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) GetBatch(ctx context.Context, id string) (BatchResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return BatchResponse{}, payrollbatcherrors.ErrInvalidBatchID
	}
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BatchResponse{}, payrollbatcherrors.ErrBatchNotFound
		}
		return BatchResponse{}, err
	}
	return mapToResponse(*batch), nil
}

func (s *service) ListBatches(ctx context.Context, req ListBatchesRequest) ([]BatchResponse, int64, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	batches, total, err := s.repo.FindAll(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]BatchResponse, len(batches))
	for i, b := range batches {
		resp[i] = mapToResponse(b)
	}
	return resp, total, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
