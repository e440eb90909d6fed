package payrollbatch_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	compensationerrors "go-payroll/internal/compensation/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payrollbatch"
	payrollbatcherrors "go-payroll/internal/payrollbatch/errors"
	"go-payroll/internal/payslip"
	paysliperrors "go-payroll/internal/payslip/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

type fakeBatchRepository struct {
	mu       sync.Mutex
	batches  map[uuid.UUID]payrollbatch.PayrollBatch
	outcomes []payrollbatch.BatchOutcome
}

func newFakeBatchRepository() *fakeBatchRepository {
	return &fakeBatchRepository{batches: make(map[uuid.UUID]payrollbatch.PayrollBatch)}
}

func (f *fakeBatchRepository) WithTx(tx *sql.Tx) payrollbatch.Repository { return f }

func (f *fakeBatchRepository) Create(ctx context.Context, batch *payrollbatch.PayrollBatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches[batch.ID] = *batch
	return nil
}

func (f *fakeBatchRepository) Update(ctx context.Context, batch *payrollbatch.PayrollBatch) error {
	return f.Create(ctx, batch)
}

func (f *fakeBatchRepository) CreateOutcomes(ctx context.Context, outcomes []payrollbatch.BatchOutcome) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcomes...)
	return nil
}

func (f *fakeBatchRepository) FindByID(ctx context.Context, id string) (*payrollbatch.PayrollBatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.batches[uuid.MustParse(id)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (f *fakeBatchRepository) FindAll(ctx context.Context, limit, offset int) ([]payrollbatch.PayrollBatch, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payrollbatch.PayrollBatch
	for _, b := range f.batches {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

type fakeGenerator struct {
	generateFn    func(ctx context.Context, req payslip.GenerateRequest) (payslip.PayslipResponse, error)
	getByPeriodFn func(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (payslip.PayslipResponse, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, req payslip.GenerateRequest) (payslip.PayslipResponse, error) {
	return f.generateFn(ctx, req)
}

func (f *fakeGenerator) GetByPeriod(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (payslip.PayslipResponse, error) {
	if f.getByPeriodFn != nil {
		return f.getByPeriodFn(ctx, employeeID, start, end)
	}
	return payslip.PayslipResponse{}, paysliperrors.ErrPayslipNotFound
}

type fakeDirectory struct {
	employees []payslip.Employee
	filters   []payslip.EmployeeFilter
}

func (f *fakeDirectory) GetEmployee(ctx context.Context, id uuid.UUID) (payslip.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return payslip.Employee{}, errors.New("not found")
}

func (f *fakeDirectory) ListEmployees(ctx context.Context, filter payslip.EmployeeFilter) ([]payslip.Employee, error) {
	f.filters = append(f.filters, filter)
	return f.employees, nil
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeOutbox) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error { return nil }

func employees(n int) []payslip.Employee {
	out := make([]payslip.Employee, n)
	for i := range out {
		out[i] = payslip.Employee{ID: uuid.New(), FullName: fmt.Sprintf("Employee %d", i+1), Active: true}
	}
	return out
}

func generated(req payslip.GenerateRequest) payslip.PayslipResponse {
	return payslip.PayslipResponse{
		ID:              uuid.NewString(),
		PayslipNumber:   "PS-202601-" + req.EmployeeID.String()[:6],
		EmployeeID:      req.EmployeeID.String(),
		GrossEarnings:   d("1000"),
		TotalDeductions: d("345.27"),
		NetPay:          d("654.73"),
	}
}

type batchDeps struct {
	sqlMock   sqlmock.Sqlmock
	repo      *fakeBatchRepository
	outbox    *fakeOutbox
	directory *fakeDirectory
	generator *fakeGenerator
}

func setupBatchTest(t *testing.T, staff []payslip.Employee, rdb *redis.Client, concurrency int) (payrollbatch.Service, *batchDeps) {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	deps := &batchDeps{
		sqlMock:   sqlMock,
		repo:      newFakeBatchRepository(),
		outbox:    &fakeOutbox{},
		directory: &fakeDirectory{employees: staff},
		generator: &fakeGenerator{
			generateFn: func(ctx context.Context, req payslip.GenerateRequest) (payslip.PayslipResponse, error) {
				return generated(req), nil
			},
		},
	}
	svc := payrollbatch.NewService(payrollbatch.Dependencies{
		DB:          db,
		Repo:        deps.repo,
		Outbox:      deps.outbox,
		Payslips:    deps.generator,
		Directory:   deps.directory,
		Redis:       rdb,
		Concurrency: concurrency,
	})
	return svc, deps
}

func runRequest() payrollbatch.RunBatchRequest {
	return payrollbatch.RunBatchRequest{PeriodStart: "2026-01-01", PeriodEnd: "2026-01-31"}
}

func countByStatus(outcomes []payrollbatch.OutcomeResponse) map[payrollbatch.OutcomeStatus]int {
	counts := map[payrollbatch.OutcomeStatus]int{}
	for _, o := range outcomes {
		counts[o.Status]++
	}
	return counts
}

func TestRun_OneCorruptedEmployee(t *testing.T) {
	staff := employees(5)
	svc, deps := setupBatchTest(t, staff, nil, 3)
	corrupted := staff[2].ID
	deps.generator.generateFn = func(ctx context.Context, req payslip.GenerateRequest) (payslip.PayslipResponse, error) {
		if req.EmployeeID == corrupted {
			return payslip.PayslipResponse{}, compensationerrors.ErrOverlappingEntry
		}
		return generated(req), nil
	}

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()
	resp, err := svc.Run(context.Background(), uuid.NewString(), runRequest())

	require.NoError(t, err)
	assert.Equal(t, payrollbatch.StatusCompleted, resp.Status)
	assert.Equal(t, 5, resp.TotalEmployees)
	assert.Equal(t, 4, resp.GeneratedEmployees)
	assert.Equal(t, 1, resp.FailedEmployees)
	assert.Equal(t, 5, resp.ProcessedEmployees)
	assert.True(t, resp.TotalNet.Equal(d("2618.92")), resp.TotalNet.String())
	assert.True(t, resp.TotalGross.Equal(d("4000")))

	for _, o := range resp.Outcomes {
		if o.EmployeeID == corrupted.String() {
			assert.Equal(t, payrollbatch.OutcomeFailed, o.Status)
			assert.Equal(t, compensationerrors.ErrOverlappingEntry.Code, o.ErrorCode)
			assert.Nil(t, o.PayslipID)
		}
	}

	assert.Len(t, deps.repo.outcomes, 5)
	require.Len(t, deps.outbox.events, 1)
	assert.Equal(t, events.PayrollBatchCompletedTopic, deps.outbox.events[0].Topic)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestRun_DuplicateIsSkippedAndCounted(t *testing.T) {
	staff := employees(2)
	svc, deps := setupBatchTest(t, staff, nil, 1)
	existingID := uuid.NewString()
	deps.generator.generateFn = func(ctx context.Context, req payslip.GenerateRequest) (payslip.PayslipResponse, error) {
		if req.EmployeeID == staff[0].ID {
			return payslip.PayslipResponse{}, paysliperrors.ErrDuplicatePayslip
		}
		return generated(req), nil
	}
	deps.generator.getByPeriodFn = func(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (payslip.PayslipResponse, error) {
		return payslip.PayslipResponse{ID: existingID, GrossEarnings: d("500"), TotalDeductions: d("100"), NetPay: d("400")}, nil
	}

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()
	resp, err := svc.Run(context.Background(), "", runRequest())

	require.NoError(t, err)
	assert.Equal(t, payrollbatch.StatusCompleted, resp.Status)
	assert.Equal(t, 1, resp.SkippedEmployees)
	assert.Equal(t, 1, resp.GeneratedEmployees)
	assert.True(t, resp.TotalGross.Equal(d("1500")))
	assert.True(t, resp.TotalNet.Equal(d("1054.73")))

	skipped := resp.Outcomes[0]
	assert.Equal(t, payrollbatch.OutcomeSkipped, skipped.Status)
	assert.Equal(t, "DUPLICATE_PAYSLIP", skipped.ErrorCode)
	require.NotNil(t, skipped.PayslipID)
	assert.Equal(t, existingID, *skipped.PayslipID)
}

func TestRun_AllFailedMarksBatchFailed(t *testing.T) {
	svc, deps := setupBatchTest(t, employees(3), nil, 2)
	deps.generator.generateFn = func(ctx context.Context, req payslip.GenerateRequest) (payslip.PayslipResponse, error) {
		return payslip.PayslipResponse{}, errors.New("rate table missing")
	}

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()
	resp, err := svc.Run(context.Background(), "", runRequest())

	require.NoError(t, err)
	assert.Equal(t, payrollbatch.StatusFailed, resp.Status)
	assert.Equal(t, 3, resp.FailedEmployees)
	assert.Equal(t, "INTERNAL_ERROR", resp.Outcomes[0].ErrorCode)
	assert.True(t, resp.TotalNet.IsZero())
}

func TestRun_EmptySelectionCompletes(t *testing.T) {
	svc, deps := setupBatchTest(t, nil, nil, 2)

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()
	resp, err := svc.Run(context.Background(), "", runRequest())

	require.NoError(t, err)
	assert.Equal(t, payrollbatch.StatusCompleted, resp.Status)
	assert.Zero(t, resp.TotalEmployees)
}

func TestRun_CancellationBetweenEmployees(t *testing.T) {
	staff := employees(3)
	svc, deps := setupBatchTest(t, staff, nil, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	deps.generator.generateFn = func(_ context.Context, req payslip.GenerateRequest) (payslip.PayslipResponse, error) {
		cancel()
		return generated(req), nil
	}

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()
	resp, err := svc.Run(ctx, "", runRequest())

	require.NoError(t, err)
	assert.Equal(t, payrollbatch.StatusCancelled, resp.Status)
	counts := countByStatus(resp.Outcomes)
	assert.Equal(t, 1, counts[payrollbatch.OutcomeGenerated])
	assert.Equal(t, 2, counts[payrollbatch.OutcomeCancelled])
	assert.Equal(t, 2, resp.CancelledEmployees)
	assert.Equal(t, 1, resp.ProcessedEmployees)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestRun_ConcurrencyIsBounded(t *testing.T) {
	svc, deps := setupBatchTest(t, employees(8), nil, 2)

	var inFlight, peak int32
	deps.generator.generateFn = func(ctx context.Context, req payslip.GenerateRequest) (payslip.PayslipResponse, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return generated(req), nil
	}

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()
	resp, err := svc.Run(context.Background(), "", runRequest())

	require.NoError(t, err)
	assert.Equal(t, 8, resp.GeneratedEmployees)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestRun_PassesSelectionAndOptions(t *testing.T) {
	staff := employees(1)
	svc, deps := setupBatchTest(t, staff, nil, 1)
	department := uuid.NewString()
	actor := uuid.NewString()
	paymentDate := "2026-02-05"

	var got payslip.GenerateRequest
	deps.generator.generateFn = func(ctx context.Context, req payslip.GenerateRequest) (payslip.PayslipResponse, error) {
		got = req
		return generated(req), nil
	}

	req := runRequest()
	req.EmployeeIDs = []string{staff[0].ID.String()}
	req.DepartmentID = &department
	req.Submit = true
	req.PaymentDate = &paymentDate

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()
	resp, err := svc.Run(context.Background(), actor, req)

	require.NoError(t, err)
	require.Len(t, deps.directory.filters, 1)
	assert.Equal(t, []uuid.UUID{staff[0].ID}, deps.directory.filters[0].EmployeeIDs)
	assert.Equal(t, department, deps.directory.filters[0].DepartmentID.String())
	assert.True(t, got.Submit)
	assert.Equal(t, resp.ID, got.BatchID.String())
	assert.Equal(t, actor, got.ActorID.String())
	assert.Equal(t, paymentDate, got.PaymentDate.Format("2006-01-02"))
}

func TestRun_InvalidInput(t *testing.T) {
	svc, _ := setupBatchTest(t, nil, nil, 1)

	_, err := svc.Run(context.Background(), "", payrollbatch.RunBatchRequest{PeriodStart: "2026-02-01", PeriodEnd: "2026-01-01"})
	assert.True(t, errors.Is(err, payrollbatcherrors.ErrInvalidPeriod))

	_, err = svc.Run(context.Background(), "", payrollbatch.RunBatchRequest{PeriodStart: "01/01/2026", PeriodEnd: "2026-01-31"})
	assert.True(t, errors.Is(err, payrollbatcherrors.ErrInvalidDateFormat))

	req := runRequest()
	req.EmployeeIDs = []string{"nope"}
	_, err = svc.Run(context.Background(), "", req)
	assert.True(t, errors.Is(err, payrollbatcherrors.ErrInvalidEmployeeID))
}

// ignoreLockValue matches redis commands while ignoring the SETNX value,
// which is the freshly generated batch id.
func ignoreLockValue(expected, actual []interface{}) error {
	if len(expected) != len(actual) {
		return fmt.Errorf("expected %d args, got %d", len(expected), len(actual))
	}
	for i := range expected {
		if i == 2 {
			continue
		}
		if fmt.Sprint(expected[i]) != fmt.Sprint(actual[i]) {
			return fmt.Errorf("arg %d: expected %v, got %v", i, expected[i], actual[i])
		}
	}
	return nil
}

// lockOwner remembers the SETNX value and then requires the release to
// compare against that same value.
type lockOwner struct {
	value string
}

func (o *lockOwner) acquire(expected, actual []interface{}) error {
	if err := ignoreLockValue(expected, actual); err != nil {
		return err
	}
	o.value = fmt.Sprint(actual[2])
	return nil
}

// release matches evalsha <sha> 1 <key> <owner>; the script hash is not
// known to the test.
func (o *lockOwner) release(expected, actual []interface{}) error {
	if len(actual) != 5 || fmt.Sprint(actual[0]) != "evalsha" {
		return fmt.Errorf("expected evalsha with one key and one arg, got %v", actual)
	}
	if fmt.Sprint(actual[3]) != fmt.Sprint(expected[3]) {
		return fmt.Errorf("lock key: expected %v, got %v", expected[3], actual[3])
	}
	if o.value == "" || fmt.Sprint(actual[4]) != o.value {
		return fmt.Errorf("release must compare against owner %q, got %v", o.value, actual[4])
	}
	return nil
}

func TestRun_PeriodLock(t *testing.T) {
	lockKey := "payroll:batch:lock:2026-01-01:2026-01-31"

	t.Run("Acquired and released by owner", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		svc, deps := setupBatchTest(t, employees(1), rdb, 1)
		owner := &lockOwner{}

		redisMock.CustomMatch(owner.acquire).ExpectSetNX(lockKey, "batch", 30*time.Minute).SetVal(true)
		redisMock.CustomMatch(owner.release).ExpectEvalSha("sha", []string{lockKey}, "batch").SetVal(int64(1))
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		created, err := svc.Run(context.Background(), "", runRequest())

		require.NoError(t, err)
		assert.Equal(t, created.ID, owner.value)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("Lock taken over after expiry is not deleted", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		svc, deps := setupBatchTest(t, employees(1), rdb, 1)
		owner := &lockOwner{}

		redisMock.CustomMatch(owner.acquire).ExpectSetNX(lockKey, "batch", 30*time.Minute).SetVal(true)
		// the key now holds another batch's id, so the script deletes nothing
		redisMock.CustomMatch(owner.release).ExpectEvalSha("sha", []string{lockKey}, "batch").SetVal(int64(0))
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		created, err := svc.Run(context.Background(), "", runRequest())

		require.NoError(t, err)
		assert.Equal(t, payrollbatch.StatusCompleted, created.Status)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("Already running", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		svc, deps := setupBatchTest(t, employees(1), rdb, 1)

		redisMock.CustomMatch(ignoreLockValue).ExpectSetNX(lockKey, "batch", 30*time.Minute).SetVal(false)

		_, err := svc.Run(context.Background(), "", runRequest())

		assert.True(t, errors.Is(err, payrollbatcherrors.ErrBatchAlreadyRunning))
		assert.Empty(t, deps.repo.batches)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}

func TestGetBatch(t *testing.T) {
	svc, deps := setupBatchTest(t, employees(1), nil, 1)

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()
	created, err := svc.Run(context.Background(), "", runRequest())
	require.NoError(t, err)

	got, err := svc.GetBatch(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, payrollbatch.StatusCompleted, got.Status)

	_, err = svc.GetBatch(context.Background(), uuid.NewString())
	assert.True(t, errors.Is(err, payrollbatcherrors.ErrBatchNotFound))

	_, err = svc.GetBatch(context.Background(), "bad")
	assert.True(t, errors.Is(err, payrollbatcherrors.ErrInvalidBatchID))

	list, total, err := svc.ListBatches(context.Background(), payrollbatch.ListBatchesRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}
