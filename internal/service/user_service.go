package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bank-card-api/internal/core/domain"
	"bank-card-api/internal/core/ports"
	"bank-card-api/pkg/apperror"
)

// UserServiceImpl implements ports.UserService (admin-only management).
type UserServiceImpl struct {
	userRepo ports.UserRepository
	hashSvc  ports.HashService
	log      zerolog.Logger
}

// NewUserService creates a new UserServiceImpl.
func NewUserService(userRepo ports.UserRepository, hashSvc ports.HashService, log zerolog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo: userRepo,
		hashSvc:  hashSvc,
		log:      log,
	}
}

// Create adds a user with an explicit role.
func (s *UserServiceImpl) Create(ctx context.Context, req ports.CreateUserRequest) (*domain.User, error) {
	taken, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check username: %w", err))
	}
	if taken {
		return nil, apperror.ErrUsernameTaken(req.Username)
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: passwordHash,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create user: %w", err))
	}

	s.log.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("user created")
	return user, nil
}

// GetByID returns the user or a not-found error.
func (s *UserServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("User", id.String())
	}
	return user, nil
}

// List returns a page of users with the total count.
func (s *UserServiceImpl) List(ctx context.Context, page ports.PageParams) ([]domain.User, int64, error) {
	users, total, err := s.userRepo.List(ctx, page.Normalize())
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list users: %w", err))
	}
	return users, total, nil
}

// Update replaces the username, password, and role of an existing user.
func (s *UserServiceImpl) Update(ctx context.Context, id uuid.UUID, req ports.UpdateUserRequest) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != user.Username {
		taken, err := s.userRepo.ExistsByUsername(ctx, req.Username)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("check username: %w", err))
		}
		if taken {
			return nil, apperror.ErrUsernameTaken(req.Username)
		}
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	user.Username = req.Username
	user.PasswordHash = passwordHash
	user.Role = req.Role
	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update user: %w", err))
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user updated")
	return user, nil
}

// Delete removes a user.
func (s *UserServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return apperror.InternalError(fmt.Errorf("delete user: %w", err))
	}

	s.log.Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}
