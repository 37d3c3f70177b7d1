// Package http provides HTTP handlers and middleware for the authorization API.
package http

import (
	"context"

	"github.com/google/uuid"
)

// Subject is the request identity injected by the upstream gateway. The
// engine never authenticates users itself; it trusts the gateway headers.
type Subject struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
}

// subjectKey is a context key type for storing the request subject.
type subjectKey struct{}

// WithSubject stores the request subject in the context.
// This is typically called by the identity middleware after header parsing.
func WithSubject(ctx context.Context, subject *Subject) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// GetSubject retrieves the request subject from the context.
// Returns (subject, true) if a subject is present, or (nil, false) if no
// subject was set. Handlers use this for granted_by/created_by attribution.
func GetSubject(ctx context.Context) (*Subject, bool) {
	subject, ok := ctx.Value(subjectKey{}).(*Subject)
	return subject, ok
}
