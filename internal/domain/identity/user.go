package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/optica/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// User is a staff account
type User struct {
	ID           int64      `gorm:"column:usuario_id;primaryKey;autoIncrement" json:"usuario_id"`
	RoleID       *int64     `gorm:"column:rol_id" json:"rol_id"`
	Role         *Role      `gorm:"foreignKey:RoleID;references:ID" json:"rol,omitempty"`
	Username     string     `gorm:"column:username;type:varchar(80);not null;uniqueIndex" json:"username"`
	PasswordHash string     `gorm:"column:password;type:varchar(255);not null" json:"-"`
	FirstName    string     `gorm:"column:nombre;type:varchar(100);not null" json:"nombre"`
	LastName1    string     `gorm:"column:ap_pat;type:varchar(100);not null" json:"ap_pat"`
	LastName2    string     `gorm:"column:ap_mat;type:varchar(100)" json:"ap_mat"`
	Email        string     `gorm:"column:email;type:varchar(254);not null;uniqueIndex" json:"email"`
	CreatedAt    *time.Time `gorm:"column:fecha_creacion" json:"fecha_creacion,omitempty"`
	Active       bool       `gorm:"column:estado;not null;default:true" json:"estado"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "usuarios"
}

// UserDraft carries the fields of a new user
type UserDraft struct {
	Username  string
	Password  string
	FirstName string
	LastName1 string
	LastName2 string
	Email     string
}

// NewUser validates the draft, hashes the password and binds the role
func NewUser(d UserDraft, role *Role, now time.Time) (*User, error) {
	u := &User{
		Username:  strings.TrimSpace(d.Username),
		FirstName: strings.TrimSpace(d.FirstName),
		LastName1: strings.TrimSpace(d.LastName1),
		LastName2: strings.TrimSpace(d.LastName2),
		Email:     strings.ToLower(strings.TrimSpace(d.Email)),
		CreatedAt: &now,
		Active:    true,
	}
	if err := u.validate(); err != nil {
		return nil, err
	}
	if err := u.SetPassword(d.Password); err != nil {
		return nil, err
	}
	u.AssignRole(role)
	return u, nil
}

func (u *User) validate() error {
	if err := validateUsername(u.Username); err != nil {
		return err
	}
	if u.FirstName == "" || u.LastName1 == "" {
		return shared.NewDomainError("INVALID_NAME", "First name and paternal surname are required")
	}
	return validateEmail(u.Email)
}

// SetPassword validates and hashes a new password
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// AssignRole links the user to role
func (u *User) AssignRole(role *Role) {
	if role == nil {
		u.RoleID, u.Role = nil, nil
		return
	}
	id := role.ID
	u.RoleID, u.Role = &id, role
}

// RoleName returns the name of the linked role, or "" when none is loaded
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// FullName joins the non-empty name parts
func (u *User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.FirstName, u.LastName1, u.LastName2} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Deactivate disables the account without removing it
func (u *User) Deactivate() {
	u.Active = false
}

// UserPatch lists the fields a user update may touch.
// Role changes go through RoleName and are resolved by the caller.
type UserPatch struct {
	Username  *string
	Password  *string
	FirstName *string
	LastName1 *string
	LastName2 *string
	Email     *string
	RoleName  *string
	Active    *bool
}

// ApplyPatch validates and applies the profile part of a patch.
// RoleName is not handled here.
func (u *User) ApplyPatch(p UserPatch) error {
	next := *u
	if p.Username != nil {
		next.Username = strings.TrimSpace(*p.Username)
	}
	if p.FirstName != nil {
		next.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName1 != nil {
		next.LastName1 = strings.TrimSpace(*p.LastName1)
	}
	if p.LastName2 != nil {
		next.LastName2 = strings.TrimSpace(*p.LastName2)
	}
	if p.Email != nil {
		next.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.Active != nil {
		next.Active = *p.Active
	}
	if err := next.validate(); err != nil {
		return err
	}
	if p.Password != nil {
		if err := next.SetPassword(*p.Password); err != nil {
			return err
		}
	}
	*u = next
	return nil
}

func validateUsername(username string) error {
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 80 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 80 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 254 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
