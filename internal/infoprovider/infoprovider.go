// Package infoprovider supplies subject attributes to decision makers.
package infoprovider

import "context"

// InfoProvider returns the roles held by a subject.
type InfoProvider interface {
	GetRoles(ctx context.Context, subject string) ([]string, error)
}
