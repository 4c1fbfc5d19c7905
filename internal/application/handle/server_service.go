package handle

import (
	"context"
	"errors"

	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/catalog/pidreg/internal/domain/shared"
	"github.com/google/uuid"
)

// RegistryServerService manages registry server configuration
type RegistryServerService struct {
	servers handle.RegistryServerRepository
	records handle.RecordRepository
}

// NewRegistryServerService creates a new RegistryServerService
func NewRegistryServerService(servers handle.RegistryServerRepository, records handle.RecordRepository) *RegistryServerService {
	return &RegistryServerService{servers: servers, records: records}
}

// Create validates and stores a new server
func (s *RegistryServerService) Create(ctx context.Context, req CreateServerRequest) (*ServerResponse, error) {
	serverType, err := handle.ParseServerType(req.Type)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	server, err := handle.NewRegistryServer(handle.RegistryServerParams{
		Name:                req.Name,
		Description:         req.Description,
		Type:                serverType,
		URL:                 req.URL,
		PublicURL:           req.PublicURL,
		Username:            req.Username,
		Password:            req.Password,
		Prefix:              req.Prefix,
		Pattern:             req.Pattern,
		LandingPageTemplate: req.LandingPageTemplate,
		PublicationGroups:   req.PublicationGroups,
	})
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	if err := s.servers.Save(ctx, server); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A registry server named '"+server.Name+"' already exists")
		}
		return nil, err
	}

	resp := ToServerResponse(server)
	return &resp, nil
}

// GetByID returns one server
func (s *RegistryServerService) GetByID(ctx context.Context, id uuid.UUID) (*ServerResponse, error) {
	server, err := s.servers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToServerResponse(server)
	return &resp, nil
}

// List returns servers, optionally restricted to one type
func (s *RegistryServerService) List(ctx context.Context, serverType string) ([]ServerResponse, error) {
	filter, err := typeFilter(serverType)
	if err != nil {
		return nil, err
	}
	servers, err := s.servers.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToServerResponses(servers), nil
}

// Delete removes a server
func (s *RegistryServerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.servers.Delete(ctx, id)
}

// ForRecord lists the servers of the given type whose publication groups accept the record's
// owner group. Servers without publication groups accept every record.
func (s *RegistryServerService) ForRecord(ctx context.Context, recordUUID, serverType string) ([]ServerResponse, error) {
	record, err := s.records.FindByUUID(ctx, recordUUID)
	if err != nil {
		return nil, err
	}

	filter, err := typeFilter(serverType)
	if err != nil {
		return nil, err
	}
	servers, err := s.servers.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	eligible := make([]handle.RegistryServer, 0, len(servers))
	for _, srv := range servers {
		if srv.AcceptsGroup(record.OwnerGroup) {
			eligible = append(eligible, srv)
		}
	}
	return ToServerResponses(eligible), nil
}

func typeFilter(serverType string) (shared.Filter, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 0
	if serverType == "" {
		return filter, nil
	}
	t, err := handle.ParseServerType(serverType)
	if err != nil {
		return filter, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	filter.Filters["type"] = t
	return filter, nil
}
