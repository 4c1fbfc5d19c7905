package handle

import (
	"context"
	"time"

	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/catalog/pidreg/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock ports
// =============================================================================

type MockRegistryClient struct {
	mock.Mock
}

func (m *MockRegistryClient) Submit(ctx context.Context, server *handle.RegistryServer, identifier string, payload *handle.Payload) error {
	args := m.Called(ctx, server, identifier, payload)
	return args.Error(0)
}

type MockTransformer struct {
	mock.Mock
}

func (m *MockTransformer) Supports(schemaID string) bool {
	return m.Called(schemaID).Bool(0)
}

func (m *MockTransformer) AddIdentifier(ctx context.Context, record *handle.Record, params handle.InsertParams) (string, error) {
	args := m.Called(ctx, record, params)
	return args.String(0), args.Error(1)
}

func (m *MockTransformer) ExtractIdentifier(schemaID, content string) (string, error) {
	args := m.Called(schemaID, content)
	return args.String(0), args.Error(1)
}

type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) FindByUUID(ctx context.Context, recordUUID string) (*handle.Record, error) {
	args := m.Called(ctx, recordUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handle.Record), args.Error(1)
}

func (m *MockRecordRepository) Save(ctx context.Context, record *handle.Record) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecordRepository) SaveWithVisibility(ctx context.Context, record *handle.Record, visibleToAll bool) error {
	return m.Called(ctx, record, visibleToAll).Error(0)
}

func (m *MockRecordRepository) IsVisibleToAll(ctx context.Context, recordID uuid.UUID) (bool, error) {
	args := m.Called(ctx, recordID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordRepository) UpdateContent(ctx context.Context, record *handle.Record, content, identifierURL string) error {
	return m.Called(ctx, record, content, identifierURL).Error(0)
}

type MockServerRepository struct {
	mock.Mock
}

func (m *MockServerRepository) FindByID(ctx context.Context, id uuid.UUID) (*handle.RegistryServer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handle.RegistryServer), args.Error(1)
}

func (m *MockServerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]handle.RegistryServer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]handle.RegistryServer), args.Error(1)
}

func (m *MockServerRepository) Save(ctx context.Context, server *handle.RegistryServer) error {
	return m.Called(ctx, server).Error(0)
}

func (m *MockServerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockGuard) Release(ctx context.Context, key, token string) error {
	return m.Called(ctx, key, token).Error(0)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordRegistration(ctx context.Context, outcome, category string) {
	m.Called(ctx, outcome, category)
}

// =============================================================================
// Fixtures
// =============================================================================

const testNodeURL = "https://catalog.example/geonetwork/srv/"

func newTestServer() *handle.RegistryServer {
	s, err := handle.NewRegistryServer(handle.RegistryServerParams{
		Name:      "epic",
		Type:      handle.ServerTypeHandle,
		URL:       "https://h.example/",
		PublicURL: "https://hdl.example/",
		Username:  "20.500.1:admin",
		Password:  "pw",
		Prefix:    "20.500.1",
		Pattern:   "{uuid}",
	})
	if err != nil {
		panic(err)
	}
	return s
}

func newTestRecord() *handle.Record {
	return &handle.Record{
		ID:         uuid.New(),
		UUID:       "abc-123",
		SchemaID:   "iso19139",
		OwnerGroup: 1,
		Content:    "<gmd:MD_Metadata/>",
		Version:    1,
	}
}

type fixture struct {
	client      *MockRegistryClient
	transformer *MockTransformer
	records     *MockRecordRepository
	servers     *MockServerRepository
}

func newFixture() *fixture {
	return &fixture{
		client:      new(MockRegistryClient),
		transformer: new(MockTransformer),
		records:     new(MockRecordRepository),
		servers:     new(MockServerRepository),
	}
}

func (f *fixture) service(opts ...Option) *HandleService {
	return NewHandleService(f.client, f.transformer, f.records, f.servers, testNodeURL, opts...)
}

func (f *fixture) assertExpectations(t mock.TestingT) {
	f.client.AssertExpectations(t)
	f.transformer.AssertExpectations(t)
	f.records.AssertExpectations(t)
	f.servers.AssertExpectations(t)
}
