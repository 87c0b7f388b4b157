package capability

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	approvaldomain "lumina-crm/backend/internal/approval/domain"
	"lumina-crm/backend/internal/membership/domain"
)

const capabilityQuery = "data.lumina.approval.can_approve"

// Default Rego policy for the approval capability. Admin roles approve
// everything; marketers may approve creative assets but not tasks.
const defaultRegoPolicy = `package lumina.approval

default can_approve = false

can_approve if {
	input.role == "super_admin"
}

can_approve if {
	input.role == "org_admin"
}

can_approve if {
	input.role == "marketer"
	input.entity_type == "asset"
}
`

// OPAEvaluator evaluates the approval capability using OPA Rego. The policy
// is compiled and prepared once at construction; evaluation is an in-memory
// query with no I/O.
type OPAEvaluator struct {
	query rego.PreparedEvalQuery
}

// NewOPAEvaluator compiles the default capability policy and prepares the
// query. Returns an error if the embedded policy does not compile.
func NewOPAEvaluator(ctx context.Context) (*OPAEvaluator, error) {
	compiler, err := ast.CompileModules(map[string]string{"capability.rego": defaultRegoPolicy})
	if err != nil {
		return nil, fmt.Errorf("compile capability policy: %w", err)
	}
	q, err := rego.New(
		rego.Query(capabilityQuery),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare capability query: %w", err)
	}
	return &OPAEvaluator{query: q}, nil
}

// CanApprove evaluates the prepared policy for (role, entityType).
// Any policy result other than boolean true is a deny.
func (e *OPAEvaluator) CanApprove(ctx context.Context, role domain.Role, entityType approvaldomain.EntityType) (bool, error) {
	input := map[string]interface{}{
		"role":        string(role),
		"entity_type": string(entityType),
	}
	rs, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Errorf("eval capability policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, nil
	}
	allowed, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, nil
	}
	return allowed, nil
}

// HealthCheck verifies the in-process Rego engine can evaluate the prepared
// capability query. Returns nil on success.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	_, err := e.CanApprove(ctx, domain.RoleViewer, approvaldomain.EntityTypeAsset)
	if err != nil {
		return fmt.Errorf("capability policy health check: %w", err)
	}
	return nil
}
