package handle

import (
	"errors"
	"strings"

	"github.com/catalog/pidreg/internal/domain/shared"
)

// ServerType is the kind of persistent identifier service a server speaks
type ServerType string

const (
	// ServerTypeDOI is a DataCite DOI server
	ServerTypeDOI ServerType = "DOI"
	// ServerTypeHandle is a Handle.net REST server
	ServerTypeHandle ServerType = "HANDLE"
)

// ErrInvalidServerType is returned when a server type string is not recognised
var ErrInvalidServerType = errors.New("handle: invalid server type")

// ParseServerType parses a server type case-insensitively. An empty value means DOI.
func ParseServerType(value string) (ServerType, error) {
	if value == "" {
		return ServerTypeDOI, nil
	}
	t := ServerType(strings.ToUpper(strings.TrimSpace(value)))
	if !t.IsValid() {
		return "", ErrInvalidServerType
	}
	return t, nil
}

// IsValid returns true if the server type is known
func (t ServerType) IsValid() bool {
	switch t {
	case ServerTypeDOI, ServerTypeHandle:
		return true
	default:
		return false
	}
}

// String returns the string representation of ServerType
func (t ServerType) String() string {
	return string(t)
}

// Errors for registry server construction
var (
	ErrServerNameRequired = errors.New("handle: server name is required")
	ErrServerTypeRequired = errors.New("handle: server type is required")
)

// RegistryServer describes one registry endpoint.
//
// URL is the registry REST API base; PublicURL is the resolver prefix used to build the
// URL stored in records. Username carries the admin handle as "<prefix>:<adminId>".
type RegistryServer struct {
	shared.BaseEntity
	Name                string
	Description         string
	Type                ServerType
	URL                 string
	PublicURL           string
	Username            string
	Password            string
	Prefix              string
	Pattern             string
	LandingPageTemplate string
	// PublicationGroups restricts which owner groups may use the server. Empty means any.
	PublicationGroups []int
}

// RegistryServerParams holds the values used to create a RegistryServer
type RegistryServerParams struct {
	Name                string
	Description         string
	Type                ServerType
	URL                 string
	PublicURL           string
	Username            string
	Password            string
	Prefix              string
	Pattern             string
	LandingPageTemplate string
	PublicationGroups   []int
}

// NewRegistryServer creates a registry server after structural validation.
// Completeness of the registration fields is checked per attempt by the PreconditionChecker.
func NewRegistryServer(p RegistryServerParams) (*RegistryServer, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrServerNameRequired
	}
	if p.Type == "" {
		return nil, ErrServerTypeRequired
	}
	if !p.Type.IsValid() {
		return nil, ErrInvalidServerType
	}

	groups := make([]int, len(p.PublicationGroups))
	copy(groups, p.PublicationGroups)

	return &RegistryServer{
		BaseEntity:          shared.NewBaseEntity(),
		Name:                strings.TrimSpace(p.Name),
		Description:         p.Description,
		Type:                p.Type,
		URL:                 strings.TrimSpace(p.URL),
		PublicURL:           strings.TrimSpace(p.PublicURL),
		Username:            p.Username,
		Password:            p.Password,
		Prefix:              strings.TrimSpace(p.Prefix),
		Pattern:             strings.TrimSpace(p.Pattern),
		LandingPageTemplate: strings.TrimSpace(p.LandingPageTemplate),
		PublicationGroups:   groups,
	}, nil
}

// IsHandleServer returns true if the server is configured for Handle registration
func (s *RegistryServer) IsHandleServer() bool {
	return s.Type == ServerTypeHandle
}

// MissingFields returns the names of registration fields that are empty.
// The landing page template is optional: without it the record API URL is used.
func (s *RegistryServer) MissingFields() []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("url", s.URL)
	check("username", s.Username)
	check("password", s.Password)
	check("prefix", s.Prefix)
	check("pattern", s.Pattern)
	check("public_url", s.PublicURL)
	return missing
}

// AcceptsGroup reports whether records owned by the group may be registered on this server
func (s *RegistryServer) AcceptsGroup(group int) bool {
	if len(s.PublicationGroups) == 0 {
		return true
	}
	for _, g := range s.PublicationGroups {
		if g == group {
			return true
		}
	}
	return false
}
