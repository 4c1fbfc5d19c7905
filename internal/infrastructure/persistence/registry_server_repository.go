package persistence

import (
	"context"
	"errors"

	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/catalog/pidreg/internal/domain/shared"
	"github.com/catalog/pidreg/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRegistryServerRepository implements handle.RegistryServerRepository using GORM
type GormRegistryServerRepository struct {
	db *gorm.DB
}

// NewGormRegistryServerRepository creates a new GormRegistryServerRepository
func NewGormRegistryServerRepository(db *gorm.DB) *GormRegistryServerRepository {
	return &GormRegistryServerRepository{db: db}
}

// FindByID loads a server with its publication groups
func (r *GormRegistryServerRepository) FindByID(ctx context.Context, id uuid.UUID) (*handle.RegistryServer, error) {
	var m models.RegistryServerModel
	if err := r.db.WithContext(ctx).Preload("Groups").First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists servers. Supported filters: "type" (handle.ServerType or string).
func (r *GormRegistryServerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]handle.RegistryServer, error) {
	query := r.db.WithContext(ctx).Model(&models.RegistryServerModel{}).Preload("Groups")

	for key, value := range filter.Filters {
		switch key {
		case "type":
			if t, ok := value.(handle.ServerType); ok {
				value = t.String()
			}
			query = query.Where("type = ?", value)
		case "name":
			query = query.Where("name = ?", value)
		}
	}

	query = query.Order(orderClause(filter, RegistryServerSortFields, "name"))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.RegistryServerModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	servers := make([]handle.RegistryServer, 0, len(rows))
	for i := range rows {
		servers = append(servers, *rows[i].ToDomain())
	}
	return servers, nil
}

// Save inserts or updates a server and replaces its publication groups
func (r *GormRegistryServerRepository) Save(ctx context.Context, server *handle.RegistryServer) error {
	m := models.RegistryServerModelFromDomain(server)
	groups := m.Groups
	m.Groups = nil

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(m).Error; err != nil {
			return err
		}
		if err := tx.Where("server_id = ?", m.ID).Delete(&models.RegistryServerGroupModel{}).Error; err != nil {
			return err
		}
		if len(groups) == 0 {
			return nil
		}
		return tx.Create(&groups).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Delete removes a server and its group links
func (r *GormRegistryServerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("server_id = ?", id).Delete(&models.RegistryServerGroupModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.RegistryServerModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormRegistryServerRepository implements handle.RegistryServerRepository
var _ handle.RegistryServerRepository = (*GormRegistryServerRepository)(nil)
