package handle

import (
	"context"
)

// PreconditionChecker decides whether a record may be registered on a server
type PreconditionChecker struct {
	access AccessChecker
}

// NewPreconditionChecker creates a PreconditionChecker
func NewPreconditionChecker(access AccessChecker) *PreconditionChecker {
	return &PreconditionChecker{access: access}
}

// Check evaluates the rules in order and returns the first failure as an *Error:
// server type, configuration completeness, publication group, visibility, existing handle.
// It never modifies the record or contacts the registry.
func (c *PreconditionChecker) Check(ctx context.Context, server *RegistryServer, record *Record) error {
	if !server.IsHandleServer() {
		return newWrongServerTypeError(server)
	}
	if missing := server.MissingFields(); len(missing) > 0 {
		return newIncompleteConfigError(server, missing)
	}
	if !server.AcceptsGroup(record.OwnerGroup) {
		return newNotEligibleError(server, record)
	}

	visible, err := c.access.IsVisibleToAll(ctx, record.ID)
	if err != nil {
		return newVisibilityCheckError(server, record, err)
	}
	if !visible {
		return newNotPublicError(server, record)
	}

	if record.HasIdentifier() {
		expected := ResolveIdentifierURL(server, BuildIdentifier(server.Pattern, server.Prefix, record))
		if record.ExistingIdentifier != expected {
			return newConflictingIdentifierError(server, record)
		}
		return newAlreadyRegisteredError(server, record)
	}
	return nil
}
