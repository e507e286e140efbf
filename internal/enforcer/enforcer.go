// Package enforcer is the policy enforcement point for protected routes. It
// normalises the request and delegates the decision to a decisionmaker.
package enforcer

import (
	"context"
	"strings"

	"github.com/CameronXie/digital-diner/internal/decisionmaker"
)

type Enforcer interface {
	Enforce(ctx context.Context, req *AccessRequest) (bool, error)
}

// AccessRequest is a subject asking to perform Action on Resource, e.g. a user id
// asking to PUT /api/orders/42/status.
type AccessRequest struct {
	Subject  string
	Resource string
	Action   string
}

type enforcer struct {
	decisionMaker decisionmaker.DecisionMaker
}

func (e *enforcer) Enforce(ctx context.Context, req *AccessRequest) (bool, error) {
	return e.decisionMaker.MakeDecision(
		ctx,
		&decisionmaker.DecisionRequest{
			Subject:  strings.ToLower(req.Subject),
			Resource: strings.ToLower(req.Resource),
			Action:   strings.ToLower(req.Action),
		},
	)
}

func NewEnforcer(decisionMaker decisionmaker.DecisionMaker) Enforcer {
	return &enforcer{decisionMaker: decisionMaker}
}
