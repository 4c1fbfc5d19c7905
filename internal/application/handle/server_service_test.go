package handle

import (
	"context"
	"testing"

	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/catalog/pidreg/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func typeFilterFor(t handle.ServerType) interface{} {
	return mock.MatchedBy(func(f shared.Filter) bool {
		return f.PageSize == 0 && f.Filters["type"] == t
	})
}

// ----------------------------------------------------------------------------
// Create
// ----------------------------------------------------------------------------

func TestRegistryServerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the server", func(t *testing.T) {
		servers := new(MockServerRepository)
		servers.On("Save", ctx, mock.MatchedBy(func(s *handle.RegistryServer) bool {
			return s.Name == "epic" && s.Type == handle.ServerTypeHandle && len(s.PublicationGroups) == 2
		})).Return(nil)

		svc := NewRegistryServerService(servers, new(MockRecordRepository))
		resp, err := svc.Create(ctx, CreateServerRequest{
			Name:              "epic",
			Type:              "handle",
			URL:               "https://h.example/",
			Password:          "pw",
			PublicationGroups: []int{2, 3},
		})

		require.NoError(t, err)
		assert.Equal(t, "HANDLE", resp.Type)
		assert.Equal(t, []int{2, 3}, resp.PublicationGroups)
		assert.Contains(t, resp.MissingFields, "username")
		servers.AssertExpectations(t)
	})

	t.Run("empty type defaults to DOI", func(t *testing.T) {
		servers := new(MockServerRepository)
		servers.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := NewRegistryServerService(servers, nil).Create(ctx, CreateServerRequest{Name: "datacite"})

		require.NoError(t, err)
		assert.Equal(t, "DOI", resp.Type)
		assert.Empty(t, resp.MissingFields)
	})

	tests := []struct {
		name    string
		req     CreateServerRequest
		saveErr error
		want    error
	}{
		{"unknown type", CreateServerRequest{Name: "x", Type: "ARK"}, nil, shared.ErrInvalidInput},
		{"blank name", CreateServerRequest{Name: "  ", Type: "HANDLE"}, nil, shared.ErrInvalidInput},
		{"duplicate name", CreateServerRequest{Name: "epic", Type: "HANDLE"}, shared.ErrAlreadyExists, shared.ErrAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			servers := new(MockServerRepository)
			if tt.saveErr != nil {
				servers.On("Save", ctx, mock.Anything).Return(tt.saveErr)
			}

			resp, err := NewRegistryServerService(servers, nil).Create(ctx, tt.req)

			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.want)
			servers.AssertExpectations(t)
		})
	}
}

// ----------------------------------------------------------------------------
// Queries
// ----------------------------------------------------------------------------

func TestRegistryServerService_List(t *testing.T) {
	ctx := context.Background()
	servers := new(MockServerRepository)
	servers.On("FindAll", ctx, typeFilterFor(handle.ServerTypeHandle)).
		Return([]handle.RegistryServer{*newTestServer()}, nil)

	svc := NewRegistryServerService(servers, nil)

	list, err := svc.List(ctx, "HANDLE")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "epic", list[0].Name)
	assert.Empty(t, list[0].MissingFields)

	_, err = svc.List(ctx, "bogus")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	servers.AssertNumberOfCalls(t, "FindAll", 1)
}

func TestRegistryServerService_GetByID(t *testing.T) {
	ctx := context.Background()
	server := newTestServer()
	missing := uuid.New()

	servers := new(MockServerRepository)
	servers.On("FindByID", ctx, server.ID).Return(server, nil)
	servers.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
	svc := NewRegistryServerService(servers, nil)

	resp, err := svc.GetByID(ctx, server.ID)
	require.NoError(t, err)
	assert.Equal(t, server.ID, resp.ID)

	_, err = svc.GetByID(ctx, missing)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRegistryServerService_ForRecord(t *testing.T) {
	ctx := context.Background()

	open := *newTestServer()
	restricted := *newTestServer()
	restricted.Name = "restricted"
	restricted.PublicationGroups = []int{7}
	matching := *newTestServer()
	matching.Name = "matching"
	matching.PublicationGroups = []int{1, 7}

	servers := new(MockServerRepository)
	servers.On("FindAll", ctx, typeFilterFor(handle.ServerTypeHandle)).
		Return([]handle.RegistryServer{open, restricted, matching}, nil)
	records := new(MockRecordRepository)
	records.On("FindByUUID", ctx, "abc-123").Return(newTestRecord(), nil)
	records.On("FindByUUID", ctx, "nope").Return(nil, shared.ErrNotFound)

	svc := NewRegistryServerService(servers, records)

	list, err := svc.ForRecord(ctx, "abc-123", "HANDLE")
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, s := range list {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"epic", "matching"}, names)

	_, err = svc.ForRecord(ctx, "nope", "HANDLE")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRegistryServerService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	servers := new(MockServerRepository)
	servers.On("Delete", ctx, id).Return(shared.ErrNotFound)

	err := NewRegistryServerService(servers, nil).Delete(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
