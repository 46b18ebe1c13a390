package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/quickdesk/internal/auth"
	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/repository"
	"github.com/spec-kit/quickdesk/internal/sanitize"
	apperrors "github.com/spec-kit/quickdesk/pkg/util/errorutil"
)

// UserService is the directory of accounts.
type UserService struct {
	users     repository.UserRepository
	hasher    *auth.Hasher
	sanitizer *sanitize.Sanitizer
	logger    *zap.Logger
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo  repository.UserRepository
	Hasher    *auth.Hasher
	Sanitizer *sanitize.Sanitizer
	Logger    *zap.Logger
}

// RegisterInput describes a registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Username string
	Password string
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{
		users:     deps.UserRepo,
		hasher:    deps.Hasher,
		sanitizer: deps.Sanitizer,
		logger:    deps.Logger,
	}
}

// Register creates a USER account.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name := s.sanitizer.Clean(in.Name)
	username := s.sanitizer.Clean(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || username == "" || email == "" || in.Password == "" {
		return nil, apperrors.NewValidationError("name, email, username and password are required", nil)
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if taken {
		return nil, apperrors.NewConflict("username already exists", map[string]any{"username": username})
	}
	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if taken {
		return nil, apperrors.NewConflict("email already exists", map[string]any{"email": email})
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("username or email already exists", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Authenticate verifies credentials. Unknown usernames and wrong passwords
// produce the same error.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// GetByID loads a user.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.lookup(s.users.GetByID(ctx, id))
}

// GetByUsername loads a user by login name.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.lookup(s.users.GetByUsername(ctx, username))
}

// Promote changes a user's role. It is reachable from the CLI only.
func (s *UserService) Promote(ctx context.Context, username string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateRole(ctx, user.ID, role); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("user role changed",
		zap.String("user_id", user.ID),
		zap.String("from", string(user.Role)),
		zap.String("to", string(role)))
	user.Role = role
	return user, nil
}

func (s *UserService) lookup(user *domain.User, err error) (*domain.User, error) {
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("user", nil)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
