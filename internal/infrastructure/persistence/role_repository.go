package persistence

import (
	"context"
	"strings"

	"github.com/optica/backend/internal/domain/identity"
	"gorm.io/gorm"
)

// GormRoleRepository implements RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// FindByID finds a role by ID
func (r *GormRoleRepository) FindByID(ctx context.Context, id int64) (*identity.Role, error) {
	var role identity.Role
	if err := r.db.WithContext(ctx).First(&role, "rol_id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &role, nil
}

// FindByName finds a role by name, ignoring case
func (r *GormRoleRepository) FindByName(ctx context.Context, name string) (*identity.Role, error) {
	var role identity.Role
	if err := r.db.WithContext(ctx).
		Where("LOWER(nombre) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&role).Error; err != nil {
		return nil, translateError(err)
	}
	return &role, nil
}

// FindAll lists every role
func (r *GormRoleRepository) FindAll(ctx context.Context) ([]identity.Role, error) {
	var roles []identity.Role
	if err := r.db.WithContext(ctx).Order("rol_id ASC").Find(&roles).Error; err != nil {
		return nil, translateError(err)
	}
	return roles, nil
}

var _ identity.RoleRepository = (*GormRoleRepository)(nil)
