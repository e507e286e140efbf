// Package policyretriever loads policy documents for the decision makers.
package policyretriever

import (
	"fmt"
	"os"
)

type PolicyRetriever interface {
	GetPolicy() (string, error)
}

type staticPolicyRetriever struct {
	policy string
}

// GetPolicy returns the policy given at construction.
func (p *staticPolicyRetriever) GetPolicy() (string, error) {
	return p.policy, nil
}

// NewStaticPolicyRetriever serves a fixed policy, e.g. an embedded default.
func NewStaticPolicyRetriever(policy string) PolicyRetriever {
	return &staticPolicyRetriever{policy: policy}
}

type filePolicyRetriever struct {
	path string
}

// GetPolicy reads the policy file on every call so edits apply without a restart.
func (p *filePolicyRetriever) GetPolicy() (string, error) {
	b, err := os.ReadFile(p.path)
	if err != nil {
		return "", fmt.Errorf("read policy %s: %w", p.path, err)
	}

	return string(b), nil
}

// NewFilePolicyRetriever serves the policy stored at path.
func NewFilePolicyRetriever(path string) PolicyRetriever {
	return &filePolicyRetriever{path: path}
}
