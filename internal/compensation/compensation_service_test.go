package compensation_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"go-payroll/internal/compensation"
	compensationerrors "go-payroll/internal/compensation/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCompensationRepository struct {
	mu      sync.Mutex
	entries []compensation.CompensationEntry

	createComponentFn         func(ctx context.Context, c *compensation.SalaryComponent) error
	findComponentsFn          func(ctx context.Context) ([]compensation.SalaryComponent, error)
	findComponentByIDFn       func(ctx context.Context, id string) (*compensation.SalaryComponent, error)
	findStatutoryComponentsFn func(ctx context.Context) ([]compensation.SalaryComponent, error)
	findEntryByIDFn           func(ctx context.Context, id string) (*compensation.CompensationEntry, error)
	findActiveEntriesFn       func(ctx context.Context, employeeID uuid.UUID, asOf time.Time) ([]compensation.CompensationEntry, error)
}

func (f *fakeCompensationRepository) WithTx(tx *sql.Tx) compensation.Repository {
	return f
}

func (f *fakeCompensationRepository) CreateComponent(ctx context.Context, c *compensation.SalaryComponent) error {
	if f.createComponentFn != nil {
		return f.createComponentFn(ctx, c)
	}
	return nil
}

func (f *fakeCompensationRepository) FindComponents(ctx context.Context) ([]compensation.SalaryComponent, error) {
	if f.findComponentsFn != nil {
		return f.findComponentsFn(ctx)
	}
	return nil, nil
}

func (f *fakeCompensationRepository) FindComponentByID(ctx context.Context, id string) (*compensation.SalaryComponent, error) {
	if f.findComponentByIDFn != nil {
		return f.findComponentByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCompensationRepository) FindStatutoryComponents(ctx context.Context) ([]compensation.SalaryComponent, error) {
	if f.findStatutoryComponentsFn != nil {
		return f.findStatutoryComponentsFn(ctx)
	}
	return nil, nil
}

func (f *fakeCompensationRepository) LockEntries(ctx context.Context, employeeID, componentID uuid.UUID) ([]compensation.CompensationEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []compensation.CompensationEntry
	for _, e := range f.entries {
		if e.EmployeeID == employeeID && e.ComponentID == componentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeCompensationRepository) CreateEntry(ctx context.Context, entry *compensation.CompensationEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// widen the race window between check and insert
	time.Sleep(5 * time.Millisecond)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeCompensationRepository) UpdateEntry(ctx context.Context, entry *compensation.CompensationEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].ID == entry.ID {
			f.entries[i] = *entry
		}
	}
	return nil
}

func (f *fakeCompensationRepository) FindEntryByID(ctx context.Context, id string) (*compensation.CompensationEntry, error) {
	if f.findEntryByIDFn != nil {
		return f.findEntryByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCompensationRepository) FindActiveEntries(ctx context.Context, employeeID uuid.UUID, asOf time.Time) ([]compensation.CompensationEntry, error) {
	if f.findActiveEntriesFn != nil {
		return f.findActiveEntriesFn(ctx, employeeID, asOf)
	}
	return nil, nil
}

func (f *fakeCompensationRepository) FindEntriesByEmployee(ctx context.Context, employeeID uuid.UUID) ([]compensation.CompensationEntry, error) {
	return f.entries, nil
}

type compensationServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service compensation.Service
	repo    *fakeCompensationRepository
}

func setupCompensationServiceTest(t *testing.T, component compensation.SalaryComponent) *compensationServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)

	repo := &fakeCompensationRepository{
		findComponentByIDFn: func(ctx context.Context, id string) (*compensation.SalaryComponent, error) {
			c := component
			return &c, nil
		},
	}
	return &compensationServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: compensation.NewService(db, repo),
		repo:    repo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func mealAllowance() compensation.SalaryComponent {
	return compensation.SalaryComponent{
		ID:              uuid.New(),
		Code:            "MEAL",
		Name:            "Meal allowance",
		Kind:            compensation.KindAllowance,
		CalculationType: compensation.CalcFixed,
		Active:          true,
	}
}

func TestCompensationService_CreateEntry(t *testing.T) {
	ctx := context.Background()
	component := mealAllowance()
	employeeID := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		deps := setupCompensationServiceTest(t, component)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.CreateEntry(ctx, uuid.NewString(), compensation.CreateEntryRequest{
			EmployeeID:    employeeID,
			ComponentID:   component.ID.String(),
			Amount:        decimal.RequireFromString("75"),
			EffectiveFrom: "2026-01-01",
		})

		require.NoError(t, err)
		assert.Equal(t, "MEAL", resp.Component.Code)
		assert.Nil(t, resp.EffectiveTo)
		assert.Len(t, deps.repo.entries, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("overlap rolls back", func(t *testing.T) {
		deps := setupCompensationServiceTest(t, component)
		defer deps.db.Close()
		deps.repo.entries = []compensation.CompensationEntry{{
			ID:            uuid.New(),
			EmployeeID:    uuid.MustParse(employeeID),
			ComponentID:   component.ID,
			EffectiveFrom: date("2025-06-01"),
		}}
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.CreateEntry(ctx, "", compensation.CreateEntryRequest{
			EmployeeID:    employeeID,
			ComponentID:   component.ID.String(),
			Amount:        decimal.RequireFromString("75"),
			EffectiveFrom: "2026-01-01",
		})

		assert.True(t, errors.Is(err, compensationerrors.ErrOverlappingEntry))
		assert.Len(t, deps.repo.entries, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("adjacent ranges are accepted", func(t *testing.T) {
		deps := setupCompensationServiceTest(t, component)
		defer deps.db.Close()
		deps.repo.entries = []compensation.CompensationEntry{{
			ID:            uuid.New(),
			EmployeeID:    uuid.MustParse(employeeID),
			ComponentID:   component.ID,
			EffectiveFrom: date("2025-06-01"),
			EffectiveTo:   datePtr("2026-01-01"),
		}}
		expectTx(t, deps.sqlMock, true)

		_, err := deps.service.CreateEntry(ctx, "", compensation.CreateEntryRequest{
			EmployeeID:    employeeID,
			ComponentID:   component.ID.String(),
			Amount:        decimal.RequireFromString("80"),
			EffectiveFrom: "2026-01-01",
		})

		assert.NoError(t, err)
	})

	t.Run("statutory component cannot be assigned", func(t *testing.T) {
		statutory := compensation.SalaryComponent{
			ID: uuid.New(), Code: "PIT", Kind: compensation.KindDeduction,
			Statutory: true, StatutoryKind: compensation.StatutoryIncomeTax, Active: true,
		}
		deps := setupCompensationServiceTest(t, statutory)
		defer deps.db.Close()

		_, err := deps.service.CreateEntry(ctx, "", compensation.CreateEntryRequest{
			EmployeeID:    employeeID,
			ComponentID:   statutory.ID.String(),
			EffectiveFrom: "2026-01-01",
		})

		assert.True(t, errors.Is(err, compensationerrors.ErrStatutoryNotAssignable))
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		deps := setupCompensationServiceTest(t, component)
		defer deps.db.Close()

		_, err := deps.service.CreateEntry(ctx, "", compensation.CreateEntryRequest{
			EmployeeID:    employeeID,
			ComponentID:   component.ID.String(),
			Amount:        decimal.RequireFromString("-1"),
			EffectiveFrom: "2026-01-01",
		})

		assert.True(t, errors.Is(err, compensationerrors.ErrInvalidAmount))
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		deps := setupCompensationServiceTest(t, component)
		defer deps.db.Close()
		to := "2025-12-01"

		_, err := deps.service.CreateEntry(ctx, "", compensation.CreateEntryRequest{
			EmployeeID:    employeeID,
			ComponentID:   component.ID.String(),
			EffectiveFrom: "2026-01-01",
			EffectiveTo:   &to,
		})

		assert.True(t, errors.Is(err, compensationerrors.ErrInvalidDateRange))
	})
}

func TestCompensationService_CreateEntry_ConcurrentWritersSerialized(t *testing.T) {
	ctx := context.Background()
	component := mealAllowance()
	deps := setupCompensationServiceTest(t, component)
	defer deps.db.Close()

	// writers are serialized, so the first commits and the second sees
	// the committed entry and rolls back
	expectTx(t, deps.sqlMock, true)
	expectTx(t, deps.sqlMock, false)

	employeeID := uuid.NewString()
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = deps.service.CreateEntry(ctx, "", compensation.CreateEntryRequest{
				EmployeeID:    employeeID,
				ComponentID:   component.ID.String(),
				Amount:        decimal.RequireFromString("10"),
				EffectiveFrom: "2026-01-01",
			})
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.True(t, errors.Is(err, compensationerrors.ErrOverlappingEntry))
			failures++
		}
	}
	assert.Equal(t, 1, failures)
	assert.Len(t, deps.repo.entries, 1)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestCompensationService_EndEntry(t *testing.T) {
	ctx := context.Background()
	component := mealAllowance()
	entry := compensation.CompensationEntry{
		ID:            uuid.New(),
		EmployeeID:    uuid.New(),
		ComponentID:   component.ID,
		Component:     &component,
		EffectiveFrom: date("2026-01-01"),
	}

	t.Run("shortens open entry", func(t *testing.T) {
		deps := setupCompensationServiceTest(t, component)
		defer deps.db.Close()
		deps.repo.entries = []compensation.CompensationEntry{entry}
		deps.repo.findEntryByIDFn = func(ctx context.Context, id string) (*compensation.CompensationEntry, error) {
			e := entry
			return &e, nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.EndEntry(ctx, entry.ID.String(), compensation.EndEntryRequest{EffectiveTo: "2026-06-01"})

		require.NoError(t, err)
		assert.Equal(t, "2026-06-01", *resp.EffectiveTo)
		assert.Equal(t, date("2026-06-01"), *deps.repo.entries[0].EffectiveTo)
	})

	t.Run("cannot end before start", func(t *testing.T) {
		deps := setupCompensationServiceTest(t, component)
		defer deps.db.Close()
		deps.repo.findEntryByIDFn = func(ctx context.Context, id string) (*compensation.CompensationEntry, error) {
			e := entry
			return &e, nil
		}

		_, err := deps.service.EndEntry(ctx, entry.ID.String(), compensation.EndEntryRequest{EffectiveTo: "2026-01-01"})

		assert.True(t, errors.Is(err, compensationerrors.ErrInvalidDateRange))
	})

	t.Run("unknown entry", func(t *testing.T) {
		deps := setupCompensationServiceTest(t, component)
		defer deps.db.Close()

		_, err := deps.service.EndEntry(ctx, uuid.NewString(), compensation.EndEntryRequest{EffectiveTo: "2026-06-01"})

		assert.True(t, errors.Is(err, compensationerrors.ErrEntryNotFound))
	})
}

func TestCompensationService_CreateComponent(t *testing.T) {
	ctx := context.Background()

	t.Run("statutory requires kind", func(t *testing.T) {
		svc := compensation.NewService(nil, &fakeCompensationRepository{})

		_, err := svc.CreateComponent(ctx, compensation.CreateComponentRequest{
			Code: "ssc", Name: "Social security", Kind: "deduction", Statutory: true,
		})

		assert.True(t, errors.Is(err, compensationerrors.ErrInvalidComponent))
	})

	t.Run("duplicate code", func(t *testing.T) {
		svc := compensation.NewService(nil, &fakeCompensationRepository{
			createComponentFn: func(ctx context.Context, c *compensation.SalaryComponent) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_salary_component_code"}
			},
		})

		_, err := svc.CreateComponent(ctx, compensation.CreateComponentRequest{Code: "meal", Name: "Meal", Kind: "allowance"})

		assert.True(t, errors.Is(err, compensationerrors.ErrComponentCodeExists))
	})

	t.Run("defaults", func(t *testing.T) {
		var saved compensation.SalaryComponent
		svc := compensation.NewService(nil, &fakeCompensationRepository{
			createComponentFn: func(ctx context.Context, c *compensation.SalaryComponent) error {
				saved = *c
				return nil
			},
		})

		resp, err := svc.CreateComponent(ctx, compensation.CreateComponentRequest{Code: " meal ", Name: "Meal", Kind: "allowance"})

		require.NoError(t, err)
		assert.Equal(t, "MEAL", resp.Code)
		assert.Equal(t, compensation.CalcFixed, saved.CalculationType)
		assert.True(t, saved.Taxable)
		assert.True(t, saved.Active)
	})
}

func TestCompensationService_ResolveStatutory(t *testing.T) {
	svc := compensation.NewService(nil, &fakeCompensationRepository{
		findStatutoryComponentsFn: func(ctx context.Context) ([]compensation.SalaryComponent, error) {
			return []compensation.SalaryComponent{
				{Code: "SSC", Statutory: true, Active: true, StatutoryKind: compensation.StatutorySocialSecurity},
			}, nil
		},
	})

	_, err := svc.ResolveStatutory(context.Background())

	assert.True(t, errors.Is(err, compensationerrors.ErrStatutoryComponentMissing))
}
