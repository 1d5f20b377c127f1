package identity

import "context"

// RoleRepository defines the interface for role persistence
type RoleRepository interface {
	FindByID(ctx context.Context, id int64) (*Role, error)
	// FindByName matches case-insensitively
	FindByName(ctx context.Context, name string) (*Role, error)
	FindAll(ctx context.Context) ([]Role, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, user *User) error
	Save(ctx context.Context, user *User) error

	// IsReferenced reports whether any sale was registered by the user
	IsReferenced(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}
