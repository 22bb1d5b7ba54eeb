package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/queuedesk/queue-backend/internal/core/domain"
	apperrors "github.com/queuedesk/queue-backend/internal/core/errors"
	"github.com/queuedesk/queue-backend/internal/core/mocks"
	"github.com/queuedesk/queue-backend/internal/core/services"
)

func validRegistration() domain.UserRegistrationParams {
	return domain.UserRegistrationParams{
		Name:        "Ana Castro",
		CPF:         "529.982.247-25",
		PhoneNumber: "+55 11 91234-5678",
		Password:    "SecurePass123",
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a new user with normalized cpf", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockRepo)

		params := validRegistration()
		mockRepo.On("GetByCPF", ctx, "52998224725").Return(nil, apperrors.ErrUserNotFound)
		mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.CPF == "52998224725" && u.Name == "Ana Castro" &&
				u.PasswordHash != "" && u.PasswordHash != params.Password
		})).Return(&domain.User{Name: "Ana Castro", CPF: "52998224725"}, nil)

		user, err := svc.Register(ctx, params)

		require.NoError(t, err)
		assert.Equal(t, "52998224725", user.CPF)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects duplicate cpf", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockRepo)

		params := validRegistration()
		mockRepo.On("GetByCPF", ctx, "52998224725").
			Return(&domain.User{CPF: "52998224725"}, nil)

		user, err := svc.Register(ctx, params)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrUserExists)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects weak password", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockRepo)

		params := validRegistration()
		params.Password = "short"

		user, err := svc.Register(ctx, params)

		assert.Nil(t, user)
		var validationErrs *apperrors.ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		assert.True(t, validationErrs.HasErrors())
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects malformed cpf", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockRepo)

		params := validRegistration()
		params.CPF = "1234"

		user, err := svc.Register(ctx, params)

		assert.Nil(t, user)
		var validationErrs *apperrors.ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("authenticates with correct credentials", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockRepo)

		hash, err := domain.HashPassword("SecurePass123")
		require.NoError(t, err)

		mockRepo.On("GetByCPF", ctx, "52998224725").Return(&domain.User{
			Name:         "Ana Castro",
			CPF:          "52998224725",
			PasswordHash: hash,
		}, nil)

		user, err := svc.Login(ctx, "52998224725", "SecurePass123")

		require.NoError(t, err)
		assert.Equal(t, "Ana Castro", user.Name)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockRepo)

		hash, err := domain.HashPassword("SecurePass123")
		require.NoError(t, err)

		mockRepo.On("GetByCPF", ctx, "52998224725").Return(&domain.User{
			CPF:          "52998224725",
			PasswordHash: hash,
		}, nil)

		user, err := svc.Login(ctx, "52998224725", "WrongPass123")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown cpf maps to invalid credentials", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockRepo)

		mockRepo.On("GetByCPF", ctx, "00000000000").
			Return(nil, apperrors.ErrUserNotFound)

		user, err := svc.Login(ctx, "00000000000", "SecurePass123")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockRepo)

		_, err := svc.Login(ctx, "", "SecurePass123")
		assert.ErrorIs(t, err, apperrors.ErrCPFRequired)

		_, err = svc.Login(ctx, "52998224725", "")
		assert.ErrorIs(t, err, apperrors.ErrPasswordRequired)

		mockRepo.AssertNotCalled(t, "GetByCPF")
	})
}
