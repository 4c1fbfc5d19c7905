package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handleapp "github.com/catalog/pidreg/internal/application/handle"
	"github.com/catalog/pidreg/internal/domain/shared"
	"github.com/catalog/pidreg/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newServerRouter(svc RegistryServerManager) *gin.Engine {
	router := gin.New()
	NewRegistryServerHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegistryServerHandler_Create(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		setup   func(*MockRegistryServerManager)
		status  int
		errCode string
	}{
		{
			name: "created",
			body: `{"name":"epic","type":"HANDLE","url":"https://h.example/","publication_groups":[2]}`,
			setup: func(m *MockRegistryServerManager) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(r handleapp.CreateServerRequest) bool {
					return r.Name == "epic" && r.Type == "HANDLE" && len(r.PublicationGroups) == 1
				})).Return(&handleapp.ServerResponse{ID: uuid.New(), Name: "epic", Type: "HANDLE"}, nil)
			},
			status: http.StatusCreated,
		},
		{
			name:    "missing name",
			body:    `{"type":"HANDLE"}`,
			status:  http.StatusBadRequest,
			errCode: dto.ErrCodeValidation,
		},
		{
			name:    "unknown type",
			body:    `{"name":"x","type":"ARK"}`,
			status:  http.StatusBadRequest,
			errCode: dto.ErrCodeValidation,
		},
		{
			name:    "negative group",
			body:    `{"name":"x","publication_groups":[-1]}`,
			status:  http.StatusBadRequest,
			errCode: dto.ErrCodeValidation,
		},
		{
			name: "duplicate",
			body: `{"name":"epic"}`,
			setup: func(m *MockRegistryServerManager) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(nil, shared.NewDomainError("ALREADY_EXISTS", "A registry server named 'epic' already exists"))
			},
			status:  http.StatusConflict,
			errCode: dto.ErrCodeAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockRegistryServerManager)
			if tt.setup != nil {
				tt.setup(svc)
			}

			w := httptest.NewRecorder()
			newServerRouter(svc).ServeHTTP(w, jsonRequest(http.MethodPost, "/api/v1/registryservers", tt.body))

			assert.Equal(t, tt.status, w.Code)
			if tt.errCode != "" {
				assert.Equal(t, tt.errCode, decodeResponse(t, w).Error.Code)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestRegistryServerHandler_Queries(t *testing.T) {
	id := uuid.New()
	svc := new(MockRegistryServerManager)
	svc.On("List", mock.Anything, "HANDLE").Return([]handleapp.ServerResponse{{ID: id, Name: "epic"}}, nil)
	svc.On("GetByID", mock.Anything, id).Return(&handleapp.ServerResponse{ID: id, Name: "epic"}, nil)
	svc.On("ForRecord", mock.Anything, "abc-123", "HANDLE").Return([]handleapp.ServerResponse{}, nil)
	svc.On("Delete", mock.Anything, id).Return(shared.ErrNotFound)
	router := newServerRouter(svc)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"list by type", http.MethodGet, "/api/v1/registryservers?type=HANDLE", http.StatusOK},
		{"get", http.MethodGet, "/api/v1/registryservers/" + id.String(), http.StatusOK},
		{"get bad id", http.MethodGet, "/api/v1/registryservers/nope", http.StatusBadRequest},
		{"for record defaults to handle", http.MethodGet, "/api/v1/registryservers/records/abc-123", http.StatusOK},
		{"delete missing", http.MethodDelete, "/api/v1/registryservers/" + id.String(), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
	svc.AssertExpectations(t)
}
