package identity

import (
	"strings"
	"time"
)

// Built-in role names
const (
	RoleAdministrator = "Administrador"
	RoleSeller        = "Vendedor"
)

// DefaultRoleName is assigned to users registered without an explicit role
const DefaultRoleName = RoleSeller

// Role groups users by what they may do
type Role struct {
	ID          int64      `gorm:"column:rol_id;primaryKey;autoIncrement" json:"rol_id"`
	Name        string     `gorm:"column:nombre;type:varchar(50);not null;uniqueIndex" json:"nombre"`
	Description string     `gorm:"column:descripcion;type:text" json:"descripcion"`
	CreatedAt   *time.Time `gorm:"column:fecha_creacion" json:"fecha_creacion,omitempty"`
	Active      bool       `gorm:"column:estado;not null;default:true" json:"estado"`
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// IsAdministrator reports whether the role grants administrative access
func (r *Role) IsAdministrator() bool {
	return r != nil && strings.EqualFold(r.Name, RoleAdministrator)
}
