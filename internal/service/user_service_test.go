package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tradebook/internal/domain"
	"tradebook/internal/service"
	"tradebook/mocks"
)

func TestUserService_Create_Success(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Create(context.Background(), service.CreateUserInput{
		Email:    "New@Shop.test",
		Password: "password123",
		FullName: "New Staff",
		Role:     domain.RoleStaff,
	})

	require.NoError(t, err)
	assert.Equal(t, "new@shop.test", user.Email)
	assert.True(t, user.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	repo.AssertExpectations(t)
}

func TestUserService_Create_InvalidRole(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	_, err := svc.Create(context.Background(), service.CreateUserInput{
		Email: "a@shop.test", Password: "password123", FullName: "A", Role: "owner",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Update_ChangesPasswordAndRole(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	existing := activeUser("old-password")
	repo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Update", mock.Anything, existing).Return(nil)

	role := domain.RoleAdmin
	password := "new-password"
	user, err := svc.Update(context.Background(), existing.ID, service.UpdateUserInput{Role: &role, Password: &password})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("new-password")))
}

func TestUserService_Update_InvalidRole(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	existing := activeUser("password123")
	repo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)

	role := domain.UserRole("manager")
	_, err := svc.Update(context.Background(), existing.ID, service.UpdateUserInput{Role: &role})

	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_Update_NotFound(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	_, err := svc.Update(context.Background(), id, service.UpdateUserInput{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
