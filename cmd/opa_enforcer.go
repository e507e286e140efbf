//go:build !casbin

package main

import (
	"log/slog"

	"github.com/CameronXie/digital-diner/internal/config"
	"github.com/CameronXie/digital-diner/internal/decisionmaker/opa"
	"github.com/CameronXie/digital-diner/internal/enforcer"
	"github.com/CameronXie/digital-diner/internal/infoprovider"
	"github.com/CameronXie/digital-diner/internal/policyretriever"
)

// newEnforcer builds an OPA backed enforcer. The Rego policy is read from cfg.Authz.PolicyPath
// on every decision, or the embedded default is used.
func newEnforcer(
	cfg *config.Config,
	roles infoprovider.InfoProvider,
	logger *slog.Logger,
) (enforcer.Enforcer, error) {
	policies := policyretriever.NewStaticPolicyRetriever(opa.DefaultPolicy)
	if cfg.Authz.PolicyPath != "" {
		policies = policyretriever.NewFilePolicyRetriever(cfg.Authz.PolicyPath)
	}

	logger.Info("enforcer_initialized", "engine", "opa", "policy_path", cfg.Authz.PolicyPath)

	return enforcer.NewEnforcer(opa.NewDecisionMaker(policies, roles, opa.DefaultQuery)), nil
}
