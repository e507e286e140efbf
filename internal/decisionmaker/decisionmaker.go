// Package decisionmaker defines the policy decision point behind the enforcer.
package decisionmaker

import "context"

// DecisionRequest asks whether Subject may perform Action on Resource.
// Resource is a request path such as /api/menu/item/65f1c0ffee0000000000aaaa and
// Action is a lower-case HTTP method.
type DecisionRequest struct {
	Subject  string
	Resource string
	Action   string
}

type DecisionMaker interface {
	MakeDecision(ctx context.Context, req *DecisionRequest) (bool, error)
}
