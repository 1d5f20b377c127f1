package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/optica/backend/internal/domain/identity"
	"github.com/optica/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Identity error codes
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	ErrUserInactive       = shared.NewDomainError("USER_INACTIVE", "User account is inactive")
	ErrRoleNotFound       = shared.NewDomainError("ROLE_NOT_FOUND", "Role not found")
	ErrUserAlreadyExists  = shared.NewDomainError("USER_ALREADY_EXISTS", "Username or email is already registered")
)

// SessionRevoker invalidates the outstanding tokens of a user
type SessionRevoker interface {
	RevokeUserTokens(ctx context.Context, userID int64, ttl time.Duration) error
}

// UserService handles staff accounts
type UserService struct {
	userRepo  identity.UserRepository
	roleRepo  identity.RoleRepository
	revoker   SessionRevoker
	revokeTTL time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, roleRepo identity.RoleRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// SetSessionRevoker makes deactivation and deletion end active sessions.
// ttl should cover the longest token lifetime.
func (s *UserService) SetSessionRevoker(revoker SessionRevoker, ttl time.Duration) {
	s.revoker = revoker
	s.revokeTTL = ttl
}

// Authenticate checks credentials and returns the active user with its role
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*identity.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown user", zap.String("username", username))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		s.logger.Warn("Login attempt for inactive account", zap.String("username", username))
		return nil, ErrUserInactive
	}
	return user, nil
}

// Register creates a new user. An empty role name means the default role.
func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*identity.User, error) {
	role, err := s.resolveRole(ctx, req.Role)
	if err != nil {
		return nil, err
	}

	user, err := identity.NewUser(identity.UserDraft{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName1: req.LastName1,
		LastName2: req.LastName2,
		Email:     req.Email,
	}, role, s.now())
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, user.Username, user.Email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", user.RoleName()),
	)
	return user, nil
}

// GetByID retrieves a user with its role
func (s *UserService) GetByID(ctx context.Context, id int64) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, fmt.Sprintf("User %d not found", id))
		}
		return nil, err
	}
	return user, nil
}

// List returns all users
func (s *UserService) List(ctx context.Context) ([]identity.User, error) {
	return s.userRepo.FindAll(ctx)
}

// Update applies an allow-listed partial update
func (s *UserService) Update(ctx context.Context, id int64, patch identity.UserPatch) (*identity.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wasActive := user.Active

	if err := user.ApplyPatch(patch); err != nil {
		return nil, err
	}
	if patch.RoleName != nil {
		role, err := s.resolveRole(ctx, *patch.RoleName)
		if err != nil {
			return nil, err
		}
		user.AssignRole(role)
	}

	if patch.Username != nil || patch.Email != nil {
		exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, user.Username, user.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUserAlreadyExists
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	if (wasActive && !user.Active) || patch.Password != nil || patch.RoleName != nil {
		s.revokeSessions(ctx, user.ID)
	}
	return user, nil
}

// Delete removes a user who never registered a sale, and deactivates one who did.
func (s *UserService) Delete(ctx context.Context, id int64) (shared.DeletionOutcome, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	referenced, err := s.userRepo.IsReferenced(ctx, id)
	if err != nil {
		return "", err
	}

	outcome := shared.DeletionHardDeleted
	if referenced {
		user.Deactivate()
		if err := s.userRepo.Save(ctx, user); err != nil {
			return "", err
		}
		outcome = shared.DeletionDeactivated
	} else if err := s.userRepo.Delete(ctx, id); err != nil {
		return "", err
	}

	s.revokeSessions(ctx, id)
	s.logger.Info("User removed", zap.Int64("user_id", id), zap.String("outcome", outcome.String()))
	return outcome, nil
}

func (s *UserService) resolveRole(ctx context.Context, name string) (*identity.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = identity.DefaultRoleName
	}
	role, err := s.roleRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(ErrRoleNotFound.Code, fmt.Sprintf("Role %q not found", name))
		}
		return nil, err
	}
	return role, nil
}

func (s *UserService) revokeSessions(ctx context.Context, userID int64) {
	if s.revoker == nil {
		return
	}
	if err := s.revoker.RevokeUserTokens(ctx, userID, s.revokeTTL); err != nil {
		s.logger.Warn("Failed to revoke user sessions", zap.Int64("user_id", userID), zap.Error(err))
	}
}
