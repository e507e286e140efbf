package casbin

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"

	"github.com/CameronXie/digital-diner/internal/decisionmaker"
	"github.com/CameronXie/digital-diner/internal/infoprovider"
)

var (
	// DefaultModel matches role, route pattern and lower-case method. Roles inherit through g.
	//go:embed model.conf
	DefaultModel string

	// DefaultPolicy grants every role the administrative routes.
	//go:embed policy.csv
	DefaultPolicy string
)

type decisionMaker struct {
	enforcer     casbin.IEnforcer
	infoProvider infoprovider.InfoProvider
}

// MakeDecision reloads the policy, then allows the request when any role of the subject is allowed.
func (d *decisionMaker) MakeDecision(ctx context.Context, req *decisionmaker.DecisionRequest) (bool, error) {
	if err := d.enforcer.LoadPolicy(); err != nil {
		return false, fmt.Errorf("failed to load policy: %w", err)
	}

	roles, err := d.infoProvider.GetRoles(ctx, req.Subject)
	if err != nil {
		return false, fmt.Errorf("failed to get roles: %w", err)
	}

	for _, role := range roles {
		ok, err := d.enforcer.Enforce(strings.ToLower(role), req.Resource, req.Action)
		if err != nil {
			return false, fmt.Errorf("failed to enforce policy for role %s: %w", role, err)
		}
		if ok {
			return true, nil
		}
	}

	return false, nil
}

// NewDecisionMaker creates a DecisionMaker from a Casbin model and a policy adapter.
func NewDecisionMaker(
	config string,
	policyRepo persist.Adapter,
	infoProvider infoprovider.InfoProvider,
) (decisionmaker.DecisionMaker, error) {
	m, err := model.NewModelFromString(config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m, policyRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}

	return &decisionMaker{enforcer: enforcer, infoProvider: infoProvider}, nil
}

// SeedPolicy saves policy into adapter when the adapter holds no policy rules yet.
// It reports whether the seed was written.
func SeedPolicy(adapter persist.Adapter, config, policy string) (bool, error) {
	current, err := model.NewModelFromString(config)
	if err != nil {
		return false, fmt.Errorf("failed to parse model: %w", err)
	}

	if err := adapter.LoadPolicy(current); err != nil {
		return false, fmt.Errorf("failed to load policy: %w", err)
	}

	if len(current["p"]["p"].Policy) > 0 {
		return false, nil
	}

	seed, err := model.NewModelFromString(config)
	if err != nil {
		return false, fmt.Errorf("failed to parse model: %w", err)
	}

	if err := stringadapter.NewAdapter(policy).LoadPolicy(seed); err != nil {
		return false, fmt.Errorf("failed to parse seed policy: %w", err)
	}

	if err := adapter.SavePolicy(seed); err != nil {
		return false, fmt.Errorf("failed to save seed policy: %w", err)
	}

	return true, nil
}
