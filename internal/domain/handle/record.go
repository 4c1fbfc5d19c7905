package handle

import (
	"github.com/google/uuid"
)

// Record is the catalog record a handle is registered for.
// It is owned by the metadata store; this package only reads it.
type Record struct {
	ID       uuid.UUID
	UUID     string
	SchemaID string
	// OwnerGroup is the group that owns the record, used for publication eligibility
	OwnerGroup int
	// ExistingIdentifier is the handle URL already stored on the record, empty when absent
	ExistingIdentifier string
	Content            string
	// Version is incremented on every content update and guards concurrent writers
	Version int
}

// HasIdentifier returns true if a handle URL is already attached to the record
func (r *Record) HasIdentifier() bool {
	return r.ExistingIdentifier != ""
}

// RegistrationResult summarises a successful registration
type RegistrationResult struct {
	Identifier    string `json:"handle"`
	IdentifierURL string `json:"handleUrl"`
	LandingPage   string `json:"landingPage"`
}

// CheckStatus is the outcome of a successful precondition check
type CheckStatus struct {
	Ready bool `json:"HANDLE_READY"`
}
