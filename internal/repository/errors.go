package repository

import (
	"fmt"
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	Key      string
	Value    string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with %s %s not found", e.Resource, e.Key, e.Value)
}

// ConflictError reports a write rejected by a uniqueness constraint.
type ConflictError struct {
	Resource string
	Key      string
	Value    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %s already exists", e.Resource, e.Key, e.Value)
}

// InvalidIDError reports an identifier the store cannot parse.
type InvalidIDError struct {
	Resource string
	Value    string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid %s id %q", e.Resource, e.Value)
}
