package partner

import (
	"strings"
	"time"

	"github.com/optica/backend/internal/domain/shared"
)

// Client is a retail customer, identified across visits by RUT (tax ID).
type Client struct {
	ID         int64      `gorm:"column:cliente_id;primaryKey;autoIncrement" json:"cliente_id"`
	FirstNames string     `gorm:"column:nombres;type:varchar(100);not null" json:"nombres"`
	LastName1  string     `gorm:"column:ap_pat;type:varchar(100);not null" json:"ap_pat"`
	LastName2  string     `gorm:"column:ap_mat;type:varchar(100)" json:"ap_mat"`
	RUT        string     `gorm:"column:rut;type:varchar(20);not null;uniqueIndex" json:"rut"`
	Email      string     `gorm:"column:email;type:varchar(254)" json:"email"`
	Phone      string     `gorm:"column:telefono;type:varchar(20)" json:"telefono"`
	Address    string     `gorm:"column:direccion;type:text" json:"direccion"`
	BirthDate  *time.Time `gorm:"column:fecha_nacimiento;type:date" json:"fecha_nacimiento,omitempty"`
	CreatedAt  *time.Time `gorm:"column:fecha_creacion" json:"fecha_creacion,omitempty"`
	Active     bool       `gorm:"column:estado;not null;default:true" json:"estado"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clientes"
}

// ClientData carries the fields used to create a client or to fill one in on first sight
type ClientData struct {
	FirstNames string
	LastName1  string
	LastName2  string
	RUT        string
	Email      string
	Phone      string
	Address    string
	BirthDate  *time.Time
}

// NewClient creates a client; RUT is mandatory
func NewClient(d ClientData, now time.Time) (*Client, error) {
	rut := NormalizeRUT(d.RUT)
	if rut == "" {
		return nil, shared.NewDomainError("INVALID_RUT", "Client RUT is required")
	}
	if len(rut) > 20 {
		return nil, shared.NewDomainError("INVALID_RUT", "Client RUT cannot exceed 20 characters")
	}
	return &Client{
		FirstNames: strings.TrimSpace(d.FirstNames),
		LastName1:  strings.TrimSpace(d.LastName1),
		LastName2:  strings.TrimSpace(d.LastName2),
		RUT:        rut,
		Email:      strings.TrimSpace(d.Email),
		Phone:      strings.TrimSpace(d.Phone),
		Address:    d.Address,
		BirthDate:  d.BirthDate,
		CreatedAt:  &now,
		Active:     true,
	}, nil
}

// FullName joins the non-empty name parts
func (c *Client) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.FirstNames, c.LastName1, c.LastName2} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// NormalizeRUT trims surrounding whitespace from a RUT
func NormalizeRUT(rut string) string {
	return strings.TrimSpace(rut)
}
