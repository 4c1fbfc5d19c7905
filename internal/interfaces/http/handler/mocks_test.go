package handler

import (
	"context"

	handleapp "github.com/catalog/pidreg/internal/application/handle"
	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockHandleRegistrar struct {
	mock.Mock
}

func (m *MockHandleRegistrar) CheckByID(ctx context.Context, serverID uuid.UUID, recordUUID string) (*handle.CheckStatus, error) {
	args := m.Called(ctx, serverID, recordUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handle.CheckStatus), args.Error(1)
}

func (m *MockHandleRegistrar) RegisterByID(ctx context.Context, serverID uuid.UUID, recordUUID string) (*handle.RegistrationResult, error) {
	args := m.Called(ctx, serverID, recordUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handle.RegistrationResult), args.Error(1)
}

type MockRegistryServerManager struct {
	mock.Mock
}

func (m *MockRegistryServerManager) Create(ctx context.Context, req handleapp.CreateServerRequest) (*handleapp.ServerResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handleapp.ServerResponse), args.Error(1)
}

func (m *MockRegistryServerManager) GetByID(ctx context.Context, id uuid.UUID) (*handleapp.ServerResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handleapp.ServerResponse), args.Error(1)
}

func (m *MockRegistryServerManager) List(ctx context.Context, serverType string) ([]handleapp.ServerResponse, error) {
	args := m.Called(ctx, serverType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]handleapp.ServerResponse), args.Error(1)
}

func (m *MockRegistryServerManager) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRegistryServerManager) ForRecord(ctx context.Context, recordUUID, serverType string) ([]handleapp.ServerResponse, error) {
	args := m.Called(ctx, recordUUID, serverType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]handleapp.ServerResponse), args.Error(1)
}

type MockRecordImporter struct {
	mock.Mock
}

func (m *MockRecordImporter) Import(ctx context.Context, req handleapp.ImportRecordRequest) (*handleapp.RecordResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handleapp.RecordResponse), args.Error(1)
}

func (m *MockRecordImporter) Get(ctx context.Context, recordUUID string) (*handleapp.RecordResponse, error) {
	args := m.Called(ctx, recordUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handleapp.RecordResponse), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
