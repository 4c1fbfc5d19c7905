package handle

import (
	"context"
	"strings"

	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/catalog/pidreg/internal/domain/shared"
)

// RecordWriter is the record storage used by imports
type RecordWriter interface {
	FindByUUID(ctx context.Context, recordUUID string) (*handle.Record, error)
	// SaveWithVisibility stores the record and its ALL group view privilege atomically
	SaveWithVisibility(ctx context.Context, record *handle.Record, visibleToAll bool) error
}

// IdentifierExtractor reads a handle URL already embedded in record content
type IdentifierExtractor interface {
	Supports(schemaID string) bool
	ExtractIdentifier(schemaID, content string) (string, error)
}

// RecordService loads records into the local store
type RecordService struct {
	records   RecordWriter
	extractor IdentifierExtractor
}

// NewRecordService creates a new RecordService
func NewRecordService(records RecordWriter, extractor IdentifierExtractor) *RecordService {
	return &RecordService{records: records, extractor: extractor}
}

// Import stores a record. A handle already present in the content becomes the record's
// existing identifier, so later registrations detect it as a duplicate.
func (s *RecordService) Import(ctx context.Context, req ImportRecordRequest) (*RecordResponse, error) {
	schemaID := strings.TrimSpace(req.SchemaID)
	if !s.extractor.Supports(schemaID) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unsupported schema '"+schemaID+"'")
	}

	existing, err := s.extractor.ExtractIdentifier(schemaID, req.Content)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	record := &handle.Record{
		UUID:               strings.TrimSpace(req.UUID),
		SchemaID:           schemaID,
		OwnerGroup:         req.OwnerGroup,
		ExistingIdentifier: existing,
		Content:            req.Content,
	}
	if err := s.records.SaveWithVisibility(ctx, record, req.Public); err != nil {
		return nil, err
	}

	resp := ToRecordResponse(record)
	return &resp, nil
}

// Get returns one record by UUID
func (s *RecordService) Get(ctx context.Context, recordUUID string) (*RecordResponse, error) {
	record, err := s.records.FindByUUID(ctx, recordUUID)
	if err != nil {
		return nil, err
	}
	resp := ToRecordResponse(record)
	return &resp, nil
}
