package identity

import (
	"time"

	"github.com/optica/backend/internal/domain/identity"
)

// RegisterUserRequest represents a request to create a staff account
type RegisterUserRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=80"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	FirstName string `json:"nombre" binding:"required,max=100"`
	LastName1 string `json:"ap_pat" binding:"required,max=100"`
	LastName2 string `json:"ap_mat" binding:"max=100"`
	Email     string `json:"email" binding:"required,email,max=254"`
	Role      string `json:"rol" binding:"max=50"`
}

// UpdateUserRequest represents a partial user update
type UpdateUserRequest struct {
	Username  *string `json:"username" binding:"omitempty,min=3,max=80"`
	Password  *string `json:"password" binding:"omitempty,min=8,max=72"`
	FirstName *string `json:"nombre" binding:"omitempty,max=100"`
	LastName1 *string `json:"ap_pat" binding:"omitempty,max=100"`
	LastName2 *string `json:"ap_mat" binding:"omitempty,max=100"`
	Email     *string `json:"email" binding:"omitempty,email,max=254"`
	Role      *string `json:"rol" binding:"omitempty,max=50"`
	Active    *bool   `json:"estado"`
}

// ToPatch converts the request into the domain allow-list
func (r UpdateUserRequest) ToPatch() identity.UserPatch {
	return identity.UserPatch{
		Username:  r.Username,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName1: r.LastName1,
		LastName2: r.LastName2,
		Email:     r.Email,
		RoleName:  r.Role,
		Active:    r.Active,
	}
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID        int64      `json:"usuario_id"`
	Username  string     `json:"username"`
	FirstName string     `json:"nombre"`
	LastName1 string     `json:"ap_pat"`
	LastName2 string     `json:"ap_mat"`
	Email     string     `json:"email"`
	Role      string     `json:"rol"`
	Active    bool       `json:"estado"`
	CreatedAt *time.Time `json:"fecha_creacion,omitempty"`
}

// ToUserResponse converts a domain user into its public view
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName1: u.LastName1,
		LastName2: u.LastName2,
		Email:     u.Email,
		Role:      u.RoleName(),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is returned after a successful login
type LoginResult struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
