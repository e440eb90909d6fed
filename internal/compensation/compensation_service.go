package compensation

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	compensationerrors "go-payroll/internal/compensation/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=compensation_service.go -destination=mock/compensation_service_mock.go -package=mock
type Service interface {
	CreateComponent(ctx context.Context, req CreateComponentRequest) (ComponentResponse, error)
	ListComponents(ctx context.Context) ([]ComponentResponse, error)
	GetComponent(ctx context.Context, id string) (ComponentResponse, error)
	CreateEntry(ctx context.Context, actorID string, req CreateEntryRequest) (EntryResponse, error)
	EndEntry(ctx context.Context, id string, req EndEntryRequest) (EntryResponse, error)
	ListEntries(ctx context.Context, employeeID string, req ListEntriesRequest) ([]EntryResponse, error)
	ActiveEntries(ctx context.Context, employeeID uuid.UUID, asOf time.Time) ([]CompensationEntry, error)
	ResolveStatutory(ctx context.Context) (StatutoryCatalog, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	locks  *keyedMutex
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("compensation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("compensation.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		locks:  newKeyedMutex(),
		logger: l,
	}
}

func (s *service) CreateComponent(ctx context.Context, req CreateComponentRequest) (ComponentResponse, error) {
	component := SalaryComponent{
		ID:              uuid.New(),
		Code:            strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:            strings.TrimSpace(req.Name),
		Kind:            Kind(req.Kind),
		CalculationType: CalculationType(req.CalculationType),
		Taxable:         true,
		Statutory:       req.Statutory,
		StatutoryKind:   StatutoryKind(req.StatutoryKind),
		ProRated:        req.ProRated,
		Active:          true,
	}
	if component.CalculationType == "" {
		component.CalculationType = CalcFixed
	}
	if req.Taxable != nil {
		component.Taxable = *req.Taxable
	}

	if err := validateComponent(component); err != nil {
		return ComponentResponse{}, err
	}

	if err := s.repo.CreateComponent(ctx, &component); err != nil {
		return ComponentResponse{}, mapRepositoryError(err, nil)
	}

	s.logger.Info("salary component created",
		zap.String("code", component.Code),
		zap.String("kind", string(component.Kind)),
		zap.Bool("statutory", component.Statutory),
	)
	return mapComponentResponse(component), nil
}

func (s *service) ListComponents(ctx context.Context) ([]ComponentResponse, error) {
	components, err := s.repo.FindComponents(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]ComponentResponse, len(components))
	for i, c := range components {
		resp[i] = mapComponentResponse(c)
	}
	return resp, nil
}

func (s *service) GetComponent(ctx context.Context, id string) (ComponentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ComponentResponse{}, compensationerrors.ErrInvalidComponentID
	}
	component, err := s.repo.FindComponentByID(ctx, id)
	if err != nil {
		return ComponentResponse{}, mapRepositoryError(err, compensationerrors.ErrComponentNotFound)
	}
	return mapComponentResponse(*component), nil
}

func (s *service) CreateEntry(ctx context.Context, actorID string, req CreateEntryRequest) (EntryResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return EntryResponse{}, compensationerrors.ErrInvalidEmployeeID
	}
	componentID, err := uuid.Parse(req.ComponentID)
	if err != nil {
		return EntryResponse{}, compensationerrors.ErrInvalidComponentID
	}
	from, to, err := parseRange(req.EffectiveFrom, req.EffectiveTo)
	if err != nil {
		return EntryResponse{}, err
	}

	component, err := s.repo.FindComponentByID(ctx, componentID.String())
	if err != nil {
		return EntryResponse{}, mapRepositoryError(err, compensationerrors.ErrComponentNotFound)
	}
	if err := validateEntryAmounts(*component, req.Amount, req.Percentage); err != nil {
		return EntryResponse{}, err
	}

	entry := CompensationEntry{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		ComponentID:   componentID,
		Amount:        req.Amount,
		Percentage:    req.Percentage,
		EffectiveFrom: from,
		EffectiveTo:   to,
		Notes:         req.Notes,
	}
	if id, err := uuid.Parse(actorID); err == nil {
		entry.CreatedBy = &id
	}

	unlock := s.locks.Lock(employeeID.String() + ":" + componentID.String())
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.LockEntries(ctx, employeeID, componentID)
	if err != nil {
		return EntryResponse{}, err
	}
	if conflict := findOverlap(existing, entry.ID, from, to); conflict != nil {
		return EntryResponse{}, apperror.WithDetail(
			compensationerrors.ErrOverlappingEntry,
			fmt.Errorf("conflicts with entry %s", conflict.ID),
		)
	}

	if err := qtx.CreateEntry(ctx, &entry); err != nil {
		return EntryResponse{}, mapRepositoryError(err, nil)
	}

	if err := tx.Commit(); err != nil {
		return EntryResponse{}, err
	}

	entry.Component = component
	s.logger.Info("compensation entry created",
		zap.String("employee_id", employeeID.String()),
		zap.String("component", component.Code),
		zap.String("effective_from", from.Format(dateLayout)),
	)
	return mapEntryResponse(entry), nil
}

// EndEntry closes an entry at effectiveTo. Entries may only be shortened,
// which can never introduce an overlap.
func (s *service) EndEntry(ctx context.Context, id string, req EndEntryRequest) (EntryResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EntryResponse{}, apperror.WithDetail(compensationerrors.ErrEntryNotFound, err)
	}
	effectiveTo, err := time.Parse(dateLayout, req.EffectiveTo)
	if err != nil {
		return EntryResponse{}, compensationerrors.ErrInvalidDateFormat
	}

	entry, err := s.repo.FindEntryByID(ctx, id)
	if err != nil {
		return EntryResponse{}, mapRepositoryError(err, compensationerrors.ErrEntryNotFound)
	}
	if !effectiveTo.After(entry.EffectiveFrom) {
		return EntryResponse{}, compensationerrors.ErrInvalidDateRange
	}
	if entry.EffectiveTo != nil && !effectiveTo.Before(*entry.EffectiveTo) {
		return EntryResponse{}, compensationerrors.ErrEntryAlreadyEnded
	}

	unlock := s.locks.Lock(entry.EmployeeID.String() + ":" + entry.ComponentID.String())
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := qtx.LockEntries(ctx, entry.EmployeeID, entry.ComponentID); err != nil {
		return EntryResponse{}, err
	}

	entry.EffectiveTo = &effectiveTo
	if err := qtx.UpdateEntry(ctx, entry); err != nil {
		return EntryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EntryResponse{}, err
	}

	return mapEntryResponse(*entry), nil
}

func (s *service) ListEntries(ctx context.Context, employeeID string, req ListEntriesRequest) ([]EntryResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, compensationerrors.ErrInvalidEmployeeID
	}

	var entries []CompensationEntry
	if req.AsOf != "" {
		asOf, err := time.Parse(dateLayout, req.AsOf)
		if err != nil {
			return nil, compensationerrors.ErrInvalidDateFormat
		}
		entries, err = s.ActiveEntries(ctx, empID, asOf)
		if err != nil {
			return nil, err
		}
	} else {
		entries, err = s.repo.FindEntriesByEmployee(ctx, empID)
		if err != nil {
			return nil, err
		}
	}

	resp := make([]EntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = mapEntryResponse(e)
	}
	return resp, nil
}

// ActiveEntries returns the entries whose range contains asOf, with their
// components loaded.
func (s *service) ActiveEntries(ctx context.Context, employeeID uuid.UUID, asOf time.Time) ([]CompensationEntry, error) {
	return s.repo.FindActiveEntries(ctx, employeeID, asOf)
}

func (s *service) ResolveStatutory(ctx context.Context) (StatutoryCatalog, error) {
	components, err := s.repo.FindStatutoryComponents(ctx)
	if err != nil {
		return nil, err
	}
	return BuildStatutoryCatalog(components)
}

func findOverlap(existing []CompensationEntry, selfID uuid.UUID, from time.Time, to *time.Time) *CompensationEntry {
	for i := range existing {
		if existing[i].ID == selfID {
			continue
		}
		if existing[i].Overlaps(from, to) {
			return &existing[i]
		}
	}
	return nil
}

func validateComponent(c SalaryComponent) error {
	if c.Code == "" || c.Name == "" {
		return apperror.WithDetail(compensationerrors.ErrInvalidComponent, fmt.Errorf("code and name are required"))
	}
	if c.Statutory {
		if !validStatutoryKind(c.StatutoryKind) {
			return apperror.WithDetail(compensationerrors.ErrInvalidComponent, fmt.Errorf("statutory components need a statutory_kind"))
		}
		if c.Kind != KindDeduction {
			return apperror.WithDetail(compensationerrors.ErrInvalidComponent, fmt.Errorf("statutory components must be deductions"))
		}
	} else if c.StatutoryKind != "" {
		return apperror.WithDetail(compensationerrors.ErrInvalidComponent, fmt.Errorf("statutory_kind requires statutory=true"))
	}
	if c.Kind == KindDeduction && c.CalculationType == CalcPerOvertimeHour {
		return apperror.WithDetail(compensationerrors.ErrInvalidComponent, fmt.Errorf("deductions cannot be paid per overtime hour"))
	}
	return nil
}

func validateEntryAmounts(c SalaryComponent, amount, percentage decimal.Decimal) error {
	if !c.Active {
		return compensationerrors.ErrComponentInactive
	}
	if c.Statutory {
		return compensationerrors.ErrStatutoryNotAssignable
	}
	if amount.IsNegative() || percentage.IsNegative() {
		return compensationerrors.ErrInvalidAmount
	}
	if c.CalculationType == CalcPercentage && (percentage.IsZero() || percentage.GreaterThan(decimal.NewFromInt(1))) {
		return compensationerrors.ErrPercentageRequired
	}
	return nil
}

func parseRange(fromRaw string, toRaw *string) (time.Time, *time.Time, error) {
	from, err := time.Parse(dateLayout, fromRaw)
	if err != nil {
		return time.Time{}, nil, compensationerrors.ErrInvalidDateFormat
	}
	if toRaw == nil || *toRaw == "" {
		return from, nil, nil
	}
	to, err := time.Parse(dateLayout, *toRaw)
	if err != nil {
		return time.Time{}, nil, compensationerrors.ErrInvalidDateFormat
	}
	if !to.After(from) {
		return time.Time{}, nil, compensationerrors.ErrInvalidDateRange
	}
	return from, &to, nil
}

func mapComponentResponse(c SalaryComponent) ComponentResponse {
	return ComponentResponse{
		ID:              c.ID.String(),
		Code:            c.Code,
		Name:            c.Name,
		Kind:            string(c.Kind),
		CalculationType: string(c.CalculationType),
		Taxable:         c.Taxable,
		Statutory:       c.Statutory,
		StatutoryKind:   string(c.StatutoryKind),
		ProRated:        c.ProRated,
		Active:          c.Active,
	}
}

func mapEntryResponse(e CompensationEntry) EntryResponse {
	resp := EntryResponse{
		ID:            e.ID.String(),
		EmployeeID:    e.EmployeeID.String(),
		ComponentID:   e.ComponentID.String(),
		Amount:        e.Amount,
		Percentage:    e.Percentage,
		EffectiveFrom: e.EffectiveFrom.Format(dateLayout),
		Notes:         e.Notes,
	}
	if e.EffectiveTo != nil {
		v := e.EffectiveTo.Format(dateLayout)
		resp.EffectiveTo = &v
	}
	if e.Component != nil {
		c := mapComponentResponse(*e.Component)
		resp.Component = &c
	}
	return resp
}
