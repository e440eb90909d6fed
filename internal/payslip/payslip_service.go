package payslip

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/bootstrap"
	"go-payroll/internal/compensation"
	"go-payroll/internal/messaging/kafka"
	paysliperrors "go-payroll/internal/payslip/errors"
	"go-payroll/internal/ratetable"
	"go-payroll/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

//go:generate mockgen -source=payslip_service.go -destination=mock/payslip_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (PayslipResponse, error)
	Regenerate(ctx context.Context, id, actorID string) (PayslipResponse, error)
	Delete(ctx context.Context, id, actorID string) error
	GetByID(ctx context.Context, id string) (PayslipResponse, error)
	GetByPeriod(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (PayslipResponse, error)
	ListByEmployee(ctx context.Context, req ListPayslipsRequest) ([]PayslipResponse, int64, error)
	Submit(ctx context.Context, id, actorID string) (PayslipResponse, error)
	Approve(ctx context.Context, id, actorID string) (PayslipResponse, error)
	Reject(ctx context.Context, id, actorID, reason string) (PayslipResponse, error)
	Cancel(ctx context.Context, id, actorID, reason string) (PayslipResponse, error)
	MarkPaid(ctx context.Context, id, actorID, reference string) (PayslipResponse, error)
	AnnotatePayment(ctx context.Context, id, actorID, reference string) (PayslipResponse, error)
	GenerateDocument(ctx context.Context, id string) (PayslipResponse, error)
}

// Dependencies groups the collaborators of the payslip service. Attendance,
// Loans, Notifier, Audit and Documents are optional.
type Dependencies struct {
	DB         *sql.DB
	Repo       Repository
	Counter    counter.Repository
	Outbox     kafka.OutboxRepository
	Ledger     Ledger
	Rates      ratetable.Lookup
	Directory  EmployeeDirectory
	Attendance AttendanceFeed
	Loans      LoanBook
	Notifier   Notifier
	Statutory  compensation.StatutoryCatalog
	Audit      bootstrap.AuditLogger
	Documents  DocumentStore
	Clock      func() time.Time
}

type service struct {
	db         *sql.DB
	repo       Repository
	counter    counter.Repository
	outbox     kafka.OutboxRepository
	ledger     Ledger
	rates      ratetable.Lookup
	directory  EmployeeDirectory
	attendance AttendanceFeed
	loans      LoanBook
	notifier   Notifier
	statutory  compensation.StatutoryCatalog
	audit      bootstrap.AuditLogger
	documents  DocumentStore
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(deps Dependencies, logger ...*zap.Logger) Service {
	l := zap.L().Named("payslip.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payslip.service")
	}

	s := &service{
		db:         deps.DB,
		repo:       deps.Repo,
		counter:    deps.Counter,
		outbox:     deps.Outbox,
		ledger:     deps.Ledger,
		rates:      deps.Rates,
		directory:  deps.Directory,
		attendance: deps.Attendance,
		loans:      deps.Loans,
		notifier:   deps.Notifier,
		statutory:  deps.Statutory,
		audit:      deps.Audit,
		documents:  deps.Documents,
		now:        deps.Clock,
		logger:     l,
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) GetByID(ctx context.Context, id string) (PayslipResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidPayslipID
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PayslipResponse{}, mapRepositoryError(err, paysliperrors.ErrPayslipNotFound)
	}
	return mapToResponse(*p), nil
}

func (s *service) GetByPeriod(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (PayslipResponse, error) {
	p, err := s.repo.FindByPeriod(ctx, employeeID, start, end)
	if err != nil {
		return PayslipResponse{}, mapRepositoryError(err, paysliperrors.ErrPayslipNotFound)
	}
	return mapToResponse(*p), nil
}

func (s *service) ListByEmployee(ctx context.Context, req ListPayslipsRequest) ([]PayslipResponse, int64, error) {
	filter := ListFilter{
		FromYear: req.FromYear,
		ToYear:   req.ToYear,
		Status:   Status(req.Status),
	}
	if req.EmployeeID != "" {
		id, err := uuid.Parse(req.EmployeeID)
		if err != nil {
			return nil, 0, paysliperrors.ErrInvalidEmployeeID
		}
		filter.EmployeeID = &id
	}
	if filter.FromYear > 0 && filter.ToYear > 0 && filter.FromYear > filter.ToYear {
		return nil, 0, paysliperrors.ErrInvalidYearRange
	}

	page := req.Page
	if page < 1 {
		page = defaultPage
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	payslips, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(payslips), total, nil
}

func (s *service) notify(ctx context.Context, kind string, p Payslip) {
	if s.notifier == nil {
		return
	}
	payload := map[string]any{
		"payslip_id":     p.ID.String(),
		"payslip_number": p.PayslipNumber,
		"period_start":   p.PeriodStart.Format(dateLayout),
		"period_end":     p.PeriodEnd.Format(dateLayout),
		"status":         p.Status,
		"net_pay":        p.NetPay.StringFixed(2),
		"currency":       p.Currency,
	}
	if err := s.notifier.Notify(ctx, p.EmployeeID.String(), kind, payload); err != nil {
		s.logger.Warn("payslip notification failed",
			zap.String("kind", kind),
			zap.String("payslip_id", p.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *service) auditLog(ctx context.Context, action, actorID string, p Payslip, message string) {
	if s.audit == nil {
		return
	}
	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:     action,
		ActorID:    actorID,
		EntityType: "payslip",
		EntityID:   p.ID.String(),
		Message:    message,
		Meta: map[string]any{
			"payslip_number": p.PayslipNumber,
			"employee_id":    p.EmployeeID.String(),
			"status":         string(p.Status),
		},
	})
}
