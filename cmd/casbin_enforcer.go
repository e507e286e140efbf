//go:build casbin

package main

import (
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v2/persist"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"
	gormadapter "github.com/casbin/gorm-adapter/v3"

	"github.com/CameronXie/digital-diner/internal/config"
	"github.com/CameronXie/digital-diner/internal/decisionmaker/casbin"
	"github.com/CameronXie/digital-diner/internal/enforcer"
	"github.com/CameronXie/digital-diner/internal/infoprovider"
)

// newPolicyAdapter returns where casbin reads policies from. The postgres store keeps them in
// the casbin_rule table of the order database and is seeded with the default policy when empty.
func newPolicyAdapter(cfg *config.Config, logger *slog.Logger) (persist.Adapter, error) {
	if cfg.Authz.PolicyStore == "postgres" {
		a, err := gormadapter.NewAdapter("postgres", cfg.Postgres.DSN, true)
		if err != nil {
			return nil, fmt.Errorf("failed to create policy adapter: %w", err)
		}

		seeded, err := casbin.SeedPolicy(a, casbin.DefaultModel, casbin.DefaultPolicy)
		if err != nil {
			return nil, err
		}
		if seeded {
			logger.Info("policy_seeded", "store", "postgres")
		}

		return a, nil
	}

	if cfg.Authz.PolicyPath != "" {
		return fileadapter.NewAdapter(cfg.Authz.PolicyPath), nil
	}

	return stringadapter.NewAdapter(casbin.DefaultPolicy), nil
}

// newEnforcer builds a casbin backed enforcer.
func newEnforcer(
	cfg *config.Config,
	roles infoprovider.InfoProvider,
	logger *slog.Logger,
) (enforcer.Enforcer, error) {
	policies, err := newPolicyAdapter(cfg, logger)
	if err != nil {
		return nil, err
	}

	decisionMaker, err := casbin.NewDecisionMaker(casbin.DefaultModel, policies, roles)
	if err != nil {
		return nil, err
	}

	logger.Info("enforcer_initialized", "engine", "casbin", "policy_store", cfg.Authz.PolicyStore)

	return enforcer.NewEnforcer(decisionMaker), nil
}
