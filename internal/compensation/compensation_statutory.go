package compensation

import (
	"fmt"
	"strings"

	compensationerrors "go-payroll/internal/compensation/errors"
	"go-payroll/internal/shared/apperror"
)

// StatutoryCatalog maps every statutory kind to the component that payslip
// entries for that kind reference.
type StatutoryCatalog map[StatutoryKind]SalaryComponent

func (c StatutoryCatalog) Get(kind StatutoryKind) (SalaryComponent, bool) {
	comp, ok := c[kind]
	return comp, ok
}

// BuildStatutoryCatalog fails when any statutory kind has no active
// component.
func BuildStatutoryCatalog(components []SalaryComponent) (StatutoryCatalog, error) {
	catalog := make(StatutoryCatalog, len(StatutoryKinds))
	for _, c := range components {
		if !c.Statutory || !c.Active {
			continue
		}
		if _, dup := catalog[c.StatutoryKind]; dup {
			continue
		}
		catalog[c.StatutoryKind] = c
	}

	var missing []string
	for _, kind := range StatutoryKinds {
		if _, ok := catalog[kind]; !ok {
			missing = append(missing, string(kind))
		}
	}
	if len(missing) > 0 {
		return nil, apperror.WithDetail(
			compensationerrors.ErrStatutoryComponentMissing,
			fmt.Errorf("missing: %s", strings.Join(missing, ", ")),
		)
	}
	return catalog, nil
}

func validStatutoryKind(kind StatutoryKind) bool {
	for _, k := range StatutoryKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// DefaultStatutoryComponents are the components cmd/importer seeds so that
// a fresh database can resolve the statutory catalog.
func DefaultStatutoryComponents() []CreateComponentRequest {
	return []CreateComponentRequest{
		{Code: "SOCIAL_SECURITY", Name: "Social security contribution", Kind: string(KindDeduction), Statutory: true, StatutoryKind: string(StatutorySocialSecurity)},
		{Code: "INCOME_TAX", Name: "Income tax", Kind: string(KindDeduction), Statutory: true, StatutoryKind: string(StatutoryIncomeTax)},
		{Code: "LEVY", Name: "Levy", Kind: string(KindDeduction), Statutory: true, StatutoryKind: string(StatutoryLevy)},
	}
}
