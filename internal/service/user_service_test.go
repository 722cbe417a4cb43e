package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"bank-card-api/internal/core/domain"
	"bank-card-api/internal/core/ports"
	"bank-card-api/internal/core/ports/mocks"
	"bank-card-api/pkg/apperror"
)

type userTestDeps struct {
	svc      *UserServiceImpl
	userRepo *mocks.MockUserRepository
	hashSvc  *mocks.MockHashService
	ctrl     *gomock.Controller
}

func setupUserService(t *testing.T) *userTestDeps {
	ctrl := gomock.NewController(t)
	d := &userTestDeps{
		userRepo: mocks.NewMockUserRepository(ctrl),
		hashSvc:  mocks.NewMockHashService(ctrl),
		ctrl:     ctrl,
	}
	d.svc = NewUserService(d.userRepo, d.hashSvc, zerolog.Nop())
	return d
}

func TestUserService_Create_Success(t *testing.T) {
	d := setupUserService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	d.userRepo.EXPECT().ExistsByUsername(ctx, "bob").Return(false, nil)
	d.hashSvc.EXPECT().Hash("pw").Return("hash", nil)
	d.userRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	user, err := d.svc.Create(ctx, ports.CreateUserRequest{Username: "bob", Password: "pw", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestUserService_Create_UsernameTaken(t *testing.T) {
	d := setupUserService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()

	d.userRepo.EXPECT().ExistsByUsername(ctx, "bob").Return(true, nil)

	_, err := d.svc.Create(ctx, ports.CreateUserRequest{Username: "bob", Password: "pw", Role: domain.RoleUser})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "AUTH_002", appErr.Code)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	d := setupUserService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	id := uuid.New()

	d.userRepo.EXPECT().GetByID(ctx, id).Return(nil, nil)

	_, err := d.svc.GetByID(ctx, id)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "RES_001", appErr.Code)
}

func TestUserService_Update_Success(t *testing.T) {
	d := setupUserService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	id := uuid.New()

	existing := &domain.User{ID: id, Username: "bob", PasswordHash: "old", Role: domain.RoleUser}

	d.userRepo.EXPECT().GetByID(ctx, id).Return(existing, nil)
	d.userRepo.EXPECT().ExistsByUsername(ctx, "robert").Return(false, nil)
	d.hashSvc.EXPECT().Hash("newpw").Return("newhash", nil)
	d.userRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	user, err := d.svc.Update(ctx, id, ports.UpdateUserRequest{Username: "robert", Password: "newpw", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "robert", user.Username)
	assert.Equal(t, "newhash", user.PasswordHash)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestUserService_Update_UsernameTaken(t *testing.T) {
	d := setupUserService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	id := uuid.New()

	existing := &domain.User{ID: id, Username: "bob", Role: domain.RoleUser}

	d.userRepo.EXPECT().GetByID(ctx, id).Return(existing, nil)
	d.userRepo.EXPECT().ExistsByUsername(ctx, "alice").Return(true, nil)

	_, err := d.svc.Update(ctx, id, ports.UpdateUserRequest{Username: "alice", Password: "pw", Role: domain.RoleUser})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "AUTH_002", appErr.Code)
}

func TestUserService_Delete(t *testing.T) {
	d := setupUserService(t)
	defer d.ctrl.Finish()
	ctx := context.Background()
	id := uuid.New()

	d.userRepo.EXPECT().GetByID(ctx, id).Return(&domain.User{ID: id}, nil)
	d.userRepo.EXPECT().Delete(ctx, id).Return(nil)

	assert.NoError(t, d.svc.Delete(ctx, id))
}
