package persistence

import (
	"context"
	"strings"

	"github.com/optica/backend/internal/domain/partner"
	"github.com/optica/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID
func (r *GormClientRepository) FindByID(ctx context.Context, id int64) (*partner.Client, error) {
	var client partner.Client
	if err := r.db.WithContext(ctx).First(&client, "cliente_id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &client, nil
}

// FindByRUT finds a client by tax ID
func (r *GormClientRepository) FindByRUT(ctx context.Context, rut string) (*partner.Client, error) {
	var client partner.Client
	if err := r.db.WithContext(ctx).First(&client, "rut = ?", partner.NormalizeRUT(rut)).Error; err != nil {
		return nil, translateError(err)
	}
	return &client, nil
}

// FindAll lists clients by name, matching the search against names and RUT
func (r *GormClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Client, int64, error) {
	query := r.db.WithContext(ctx).Model(&partner.Client{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(nombres) LIKE ? OR LOWER(ap_pat) LIKE ? OR LOWER(rut) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	f := filter.Normalize()
	var clients []partner.Client
	if err := query.Order("ap_pat ASC, nombres ASC, cliente_id ASC").
		Offset(f.Offset()).Limit(f.PageSize).
		Find(&clients).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return clients, total, nil
}

// Create inserts a new client
func (r *GormClientRepository) Create(ctx context.Context, client *partner.Client) error {
	return translateError(r.db.WithContext(ctx).Create(client).Error)
}

// GetOrCreateByRUT inserts client unless its RUT is already taken, then
// returns whichever row holds the RUT. Concurrent callers with the same RUT
// all end up with the single stored row.
func (r *GormClientRepository) GetOrCreateByRUT(ctx context.Context, client *partner.Client) (*partner.Client, bool, error) {
	client.RUT = partner.NormalizeRUT(client.RUT)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "rut"}}, DoNothing: true}).
		Create(client)
	if result.Error != nil {
		return nil, false, translateError(result.Error)
	}
	if result.RowsAffected == 1 {
		return client, true, nil
	}

	existing, err := r.FindByRUT(ctx, client.RUT)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

var _ partner.ClientRepository = (*GormClientRepository)(nil)
