package models

import (
	"time"

	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/google/uuid"
)

// GroupAll is the pseudo-group every anonymous visitor belongs to.
const GroupAll = 1

// OperationView is the privilege needed to read a record.
const OperationView = "view"

// RecordModel is the persistence model for catalog records
type RecordModel struct {
	BaseModel
	UUID       string `gorm:"column:uuid;type:varchar(255);not null;uniqueIndex"`
	SchemaID   string `gorm:"type:varchar(64);not null"`
	OwnerGroup int    `gorm:"not null;default:0"`
	HandleURL  string `gorm:"column:handle_url;type:varchar(1024)"`
	Content    string `gorm:"type:text;not null"`
	Version    int    `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (RecordModel) TableName() string {
	return "records"
}

// RecordPrivilegeModel grants an operation on a record to a group
type RecordPrivilegeModel struct {
	RecordID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID   int       `gorm:"primaryKey;autoIncrement:false"`
	Operation string    `gorm:"type:varchar(32);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RecordPrivilegeModel) TableName() string {
	return "record_privileges"
}

// ToDomain converts the model to a domain record
func (m *RecordModel) ToDomain() *handle.Record {
	return &handle.Record{
		ID:                 m.ID,
		UUID:               m.UUID,
		SchemaID:           m.SchemaID,
		OwnerGroup:         m.OwnerGroup,
		ExistingIdentifier: m.HandleURL,
		Content:            m.Content,
		Version:            m.Version,
	}
}

// RecordModelFromDomain builds the persistence model for r
func RecordModelFromDomain(r *handle.Record) *RecordModel {
	m := &RecordModel{
		UUID:       r.UUID,
		SchemaID:   r.SchemaID,
		OwnerGroup: r.OwnerGroup,
		HandleURL:  r.ExistingIdentifier,
		Content:    r.Content,
		Version:    r.Version,
	}
	m.ID = r.ID
	return m
}
