package handle

import (
	"time"

	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/google/uuid"
)

// CreateServerRequest is the input for registering a registry server
type CreateServerRequest struct {
	Name                string `json:"name" binding:"required,max=255"`
	Description         string `json:"description"`
	Type                string `json:"type" binding:"omitempty,servertype"`
	URL                 string `json:"url" binding:"omitempty,url"`
	PublicURL           string `json:"public_url" binding:"omitempty,url"`
	Username            string `json:"username"`
	Password            string `json:"password"`
	Prefix              string `json:"prefix"`
	Pattern             string `json:"pattern"`
	LandingPageTemplate string `json:"landing_page_template"`
	PublicationGroups   []int  `json:"publication_groups" binding:"omitempty,dive,gte=0"`
}

// ServerResponse is a registry server as shown to API clients. The password is never returned.
type ServerResponse struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	Type                string    `json:"type"`
	URL                 string    `json:"url"`
	PublicURL           string    `json:"public_url"`
	Username            string    `json:"username"`
	Prefix              string    `json:"prefix"`
	Pattern             string    `json:"pattern"`
	LandingPageTemplate string    `json:"landing_page_template,omitempty"`
	PublicationGroups   []int     `json:"publication_groups"`
	MissingFields       []string  `json:"missing_fields,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ToServerResponse converts a domain server to its API form
func ToServerResponse(s *handle.RegistryServer) ServerResponse {
	groups := s.PublicationGroups
	if groups == nil {
		groups = []int{}
	}
	resp := ServerResponse{
		ID:                  s.ID,
		Name:                s.Name,
		Description:         s.Description,
		Type:                s.Type.String(),
		URL:                 s.URL,
		PublicURL:           s.PublicURL,
		Username:            s.Username,
		Prefix:              s.Prefix,
		Pattern:             s.Pattern,
		LandingPageTemplate: s.LandingPageTemplate,
		PublicationGroups:   groups,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
	if s.IsHandleServer() {
		resp.MissingFields = s.MissingFields()
	}
	return resp
}

// ToServerResponses converts a list of servers
func ToServerResponses(servers []handle.RegistryServer) []ServerResponse {
	out := make([]ServerResponse, 0, len(servers))
	for i := range servers {
		out = append(out, ToServerResponse(&servers[i]))
	}
	return out
}

// ImportRecordRequest stores a record body so that it can be registered
type ImportRecordRequest struct {
	UUID       string `json:"uuid" binding:"required"`
	SchemaID   string `json:"schema_id" binding:"required"`
	OwnerGroup int    `json:"owner_group" binding:"gte=0"`
	Content    string `json:"content" binding:"required"`
	Public     bool   `json:"public"`
}

// RecordResponse summarises a stored record
type RecordResponse struct {
	ID        uuid.UUID `json:"id"`
	UUID      string    `json:"uuid"`
	SchemaID  string    `json:"schema_id"`
	Group     int       `json:"owner_group"`
	HandleURL string    `json:"handle_url,omitempty"`
	Version   int       `json:"version"`
}

// ToRecordResponse converts a domain record
func ToRecordResponse(r *handle.Record) RecordResponse {
	return RecordResponse{
		ID:        r.ID,
		UUID:      r.UUID,
		SchemaID:  r.SchemaID,
		Group:     r.OwnerGroup,
		HandleURL: r.ExistingIdentifier,
		Version:   r.Version,
	}
}
