package payslip

import (
	"context"
	"errors"

	paysliperrors "go-payroll/internal/payslip/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errDocumentStoreMissing = errors.New("payslip document store is not configured")

// GenerateDocument renders the PDF of a payslip, stores it and records its
// URL. Re-rendering overwrites the previous file.
func (s *service) GenerateDocument(ctx context.Context, id string) (PayslipResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidPayslipID
	}
	if s.documents == nil {
		return PayslipResponse{}, errDocumentStoreMissing
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PayslipResponse{}, mapRepositoryError(err, paysliperrors.ErrPayslipNotFound)
	}
	employee, err := s.directory.GetEmployee(ctx, p.EmployeeID)
	if err != nil {
		return PayslipResponse{}, err
	}

	content, err := renderPayslipPDF(*p, employee)
	if err != nil {
		return PayslipResponse{}, err
	}
	url, err := s.documents.Save(ctx, p.PayslipNumber+".pdf", content)
	if err != nil {
		return PayslipResponse{}, err
	}

	now := s.now()
	if err := s.repo.UpdateDocument(ctx, p.ID, url, now); err != nil {
		return PayslipResponse{}, err
	}
	p.DocumentURL = &url
	p.DocumentGeneratedAt = &now

	s.logger.Info("payslip document generated",
		zap.String("payslip_id", p.ID.String()),
		zap.String("url", url),
		zap.Int("bytes", len(content)),
	)
	return mapToResponse(*p), nil
}
