package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/catalog/pidreg/internal/domain/shared"
	"github.com/catalog/pidreg/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRecordRepository implements handle.RecordRepository using GORM
type GormRecordRepository struct {
	db *gorm.DB
}

// NewGormRecordRepository creates a new GormRecordRepository
func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

// FindByUUID finds a record by its catalog UUID
func (r *GormRecordRepository) FindByUUID(ctx context.Context, recordUUID string) (*handle.Record, error) {
	var m models.RecordModel
	if err := r.db.WithContext(ctx).First(&m, "uuid = ?", recordUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// IsVisibleToAll reports whether the ALL group holds the view privilege on the record
func (r *GormRecordRepository) IsVisibleToAll(ctx context.Context, recordID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RecordPrivilegeModel{}).
		Where("record_id = ? AND group_id = ? AND operation = ?", recordID, models.GroupAll, models.OperationView).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetVisibleToAll grants or revokes the view privilege of the ALL group
func (r *GormRecordRepository) SetVisibleToAll(ctx context.Context, recordID uuid.UUID, visible bool) error {
	return setVisibleToAll(r.db.WithContext(ctx), recordID, visible)
}

func setVisibleToAll(db *gorm.DB, recordID uuid.UUID, visible bool) error {
	if !visible {
		return db.Where("record_id = ? AND group_id = ? AND operation = ?", recordID, models.GroupAll, models.OperationView).
			Delete(&models.RecordPrivilegeModel{}).Error
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.RecordPrivilegeModel{
		RecordID:  recordID,
		GroupID:   models.GroupAll,
		Operation: models.OperationView,
		CreatedAt: time.Now(),
	}).Error
}

// UpdateContent writes new content and handle URL if the stored version still matches
// record.Version. On success record is updated in place with the new content and version.
func (r *GormRecordRepository) UpdateContent(ctx context.Context, record *handle.Record, content, identifierURL string) error {
	result := r.db.WithContext(ctx).
		Model(&models.RecordModel{}).
		Where("id = ? AND version = ?", record.ID, record.Version).
		Updates(map[string]interface{}{
			"content":    content,
			"handle_url": identifierURL,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.RecordModel{}).Where("id = ?", record.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrConcurrencyConflict
	}

	record.Content = content
	record.ExistingIdentifier = identifierURL
	record.Version++
	return nil
}

// Save inserts a record, or replaces the stored copy with the same UUID
func (r *GormRecordRepository) Save(ctx context.Context, record *handle.Record) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveRecord(tx, record)
	})
}

// SaveWithVisibility saves the record and sets the view privilege of the ALL group in
// one transaction. On failure neither the record nor its visibility is changed.
func (r *GormRecordRepository) SaveWithVisibility(ctx context.Context, record *handle.Record, visibleToAll bool) error {
	id, version := record.ID, record.Version
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveRecord(tx, record); err != nil {
			return err
		}
		return setVisibleToAll(tx, record.ID, visibleToAll)
	})
	if err != nil {
		record.ID, record.Version = id, version
	}
	return err
}

func saveRecord(tx *gorm.DB, record *handle.Record) error {
	var existing models.RecordModel
	err := tx.First(&existing, "uuid = ?", record.UUID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
		record.Version = 1
		m := models.RecordModelFromDomain(record)
		now := time.Now()
		m.CreatedAt, m.UpdatedAt = now, now
		return tx.Create(m).Error
	case err != nil:
		return err
	}

	record.ID = existing.ID
	record.Version = existing.Version + 1
	return tx.Model(&existing).Updates(map[string]interface{}{
		"schema_id":   record.SchemaID,
		"owner_group": record.OwnerGroup,
		"handle_url":  record.ExistingIdentifier,
		"content":     record.Content,
		"version":     record.Version,
		"updated_at":  time.Now(),
	}).Error
}

// Ensure GormRecordRepository implements handle.RecordRepository
var _ handle.RecordRepository = (*GormRecordRepository)(nil)
