package handle

import (
	"context"
	"time"

	"github.com/catalog/pidreg/internal/domain/shared"
	"github.com/google/uuid"
)

// RegistryClient submits handle payloads to a registry server.
// Implementations send exactly one request per call and return a *SubmissionError on failure.
type RegistryClient interface {
	Submit(ctx context.Context, server *RegistryServer, identifier string, payload *Payload) error
}

// AccessChecker answers whether a record is visible to anonymous users
type AccessChecker interface {
	IsVisibleToAll(ctx context.Context, recordID uuid.UUID) (bool, error)
}

// ContentTransformer embeds a handle URL into a record body
type ContentTransformer interface {
	// Supports reports whether a handle insertion transform exists for the schema
	Supports(schemaID string) bool
	// AddIdentifier returns the record content with the handle inserted
	AddIdentifier(ctx context.Context, record *Record, params InsertParams) (string, error)
}

// InsertParams are the values handed to the insertion transform
type InsertParams struct {
	HandleURL string
	Protocol  string
	Name      string
}

// DefaultProtocol is the protocol written next to an inserted handle
const DefaultProtocol = "HANDLE"

// RecordStore persists record content changes.
// UpdateContent must fail with shared.ErrConcurrencyConflict when the stored version differs
// from record.Version; this is the only guard against two concurrent registrations.
type RecordStore interface {
	UpdateContent(ctx context.Context, record *Record, content, identifierURL string) error
}

// RecordRepository loads records by their public UUID
type RecordRepository interface {
	RecordStore
	AccessChecker
	FindByUUID(ctx context.Context, recordUUID string) (*Record, error)
	Save(ctx context.Context, record *Record) error
}

// RegistryServerRepository stores registry server configuration
type RegistryServerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RegistryServer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]RegistryServer, error)
	Save(ctx context.Context, server *RegistryServer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RegistrationGuard marks a registration as running so a concurrent attempt backs off early
type RegistrationGuard interface {
	// Acquire returns false if the key is already held. The returned token identifies
	// this holder and must be passed to Release.
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	// Release frees key only while token still holds it
	Release(ctx context.Context, key, token string) error
}

// GuardKey returns the registration guard key for a server and record
func GuardKey(serverID uuid.UUID, recordUUID string) string {
	return "handle:register:" + serverID.String() + ":" + recordUUID
}
