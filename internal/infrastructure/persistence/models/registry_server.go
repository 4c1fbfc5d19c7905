package models

import (
	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/google/uuid"
)

// RegistryServerModel is the persistence model for handle.RegistryServer
type RegistryServerModel struct {
	BaseModel
	Name                string                     `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description         string                     `gorm:"type:text"`
	Type                string                     `gorm:"type:varchar(20);not null;index"`
	URL                 string                     `gorm:"column:url;type:varchar(1024)"`
	PublicURL           string                     `gorm:"column:public_url;type:varchar(1024)"`
	Username            string                     `gorm:"type:varchar(255)"`
	Password            string                     `gorm:"type:varchar(255)"`
	Prefix              string                     `gorm:"type:varchar(255)"`
	Pattern             string                     `gorm:"type:varchar(255)"`
	LandingPageTemplate string                     `gorm:"type:varchar(1024)"`
	Groups              []RegistryServerGroupModel `gorm:"foreignKey:ServerID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (RegistryServerModel) TableName() string {
	return "registry_servers"
}

// RegistryServerGroupModel links a server to a publication group
type RegistryServerGroupModel struct {
	ServerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID  int       `gorm:"primaryKey;autoIncrement:false"`
}

// TableName returns the table name for GORM
func (RegistryServerGroupModel) TableName() string {
	return "registry_server_groups"
}

// ToDomain converts the model to a domain registry server. A stored type that no
// longer parses is kept verbatim so the precondition check can report it.
func (m *RegistryServerModel) ToDomain() *handle.RegistryServer {
	serverType, err := handle.ParseServerType(m.Type)
	if err != nil {
		serverType = handle.ServerType(m.Type)
	}

	groups := make([]int, 0, len(m.Groups))
	for _, g := range m.Groups {
		groups = append(groups, g.GroupID)
	}

	return &handle.RegistryServer{
		BaseEntity:          m.BaseModel.ToDomain(),
		Name:                m.Name,
		Description:         m.Description,
		Type:                serverType,
		URL:                 m.URL,
		PublicURL:           m.PublicURL,
		Username:            m.Username,
		Password:            m.Password,
		Prefix:              m.Prefix,
		Pattern:             m.Pattern,
		LandingPageTemplate: m.LandingPageTemplate,
		PublicationGroups:   groups,
	}
}

// RegistryServerModelFromDomain builds the persistence model for s
func RegistryServerModelFromDomain(s *handle.RegistryServer) *RegistryServerModel {
	m := &RegistryServerModel{
		Name:                s.Name,
		Description:         s.Description,
		Type:                s.Type.String(),
		URL:                 s.URL,
		PublicURL:           s.PublicURL,
		Username:            s.Username,
		Password:            s.Password,
		Prefix:              s.Prefix,
		Pattern:             s.Pattern,
		LandingPageTemplate: s.LandingPageTemplate,
	}
	m.FromDomain(s.BaseEntity)

	seen := make(map[int]bool, len(s.PublicationGroups))
	for _, g := range s.PublicationGroups {
		if seen[g] {
			continue
		}
		seen[g] = true
		m.Groups = append(m.Groups, RegistryServerGroupModel{ServerID: s.ID, GroupID: g})
	}
	return m
}
