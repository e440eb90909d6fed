package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

const (
	RoleViewer   = "payroll_viewer"
	RoleOperator = "payroll_operator"
	RoleApprover = "payroll_approver"
	RoleAdmin    = "payroll_admin"
)

// DefaultPolicies is used when no policy file is configured.
var DefaultPolicies = [][]string{
	{RoleViewer, "payslip", "read"},
	{RoleViewer, "payroll_batch", "read"},
	{RoleViewer, "rate_table", "read"},
	{RoleViewer, "compensation", "read"},
	{RoleViewer, "loan", "read"},
	{RoleOperator, "payslip", "create"},
	{RoleOperator, "payslip", "submit"},
	{RoleOperator, "payslip", "delete"},
	{RoleOperator, "payroll_batch", "run"},
	{RoleOperator, "compensation", "write"},
	{RoleOperator, "loan", "write"},
	{RoleApprover, "payslip", "approve"},
	{RoleApprover, "payslip", "pay"},
	{RoleApprover, "loan", "approve"},
	{RoleAdmin, "rate_table", "publish"},
}

var DefaultRoleHierarchy = [][]string{
	{RoleOperator, RoleViewer},
	{RoleApprover, RoleViewer},
	{RoleAdmin, RoleOperator},
	{RoleAdmin, RoleApprover},
}

// NewEnforcer builds the role enforcer. With an empty policyPath the
// built-in policy set is loaded.
func NewEnforcer(policyPath string) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	if policyPath != "" {
		return casbin.NewEnforcer(m, fileadapter.NewAdapter(policyPath))
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	if _, err := e.AddPolicies(DefaultPolicies); err != nil {
		return nil, err
	}
	if _, err := e.AddGroupingPolicies(DefaultRoleHierarchy); err != nil {
		return nil, err
	}
	return e, nil
}
