package postgres

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queuedesk/queue-backend/internal/core/domain"
	apperrors "github.com/queuedesk/queue-backend/internal/core/errors"
)

// randomCPF returns a unique 11-digit string for test users.
func randomCPF() string {
	return fmt.Sprintf("%011d", rand.Int63n(100_000_000_000))
}

// createTestUser inserts a user with unique cpf and phone number.
func createTestUser(t *testing.T) *domain.User {
	t.Helper()
	require.NotNil(t, testPool, "testPool is nil. TestMain may not have run.")

	userRepo := NewUserRepository(testPool)

	user, err := domain.NewUser(domain.UserRegistrationParams{
		Name:        "Test User",
		CPF:         randomCPF(),
		PhoneNumber: "+55 11 9" + randomCPF()[:8],
		Password:    "SecurePass123",
	})
	require.NoError(t, err)

	created, err := userRepo.Create(context.Background(), user)
	require.NoError(t, err, "Failed to create user")
	return created
}

func TestUserRepository_CreateGet(t *testing.T) {
	ctx := context.Background()
	userRepo := NewUserRepository(testPool)

	created := createTestUser(t)

	foundByCPF, err := userRepo.GetByCPF(ctx, created.CPF)
	require.NoError(t, err, "Failed to get user by cpf")
	assert.Equal(t, created.ID, foundByCPF.ID)
	assert.Equal(t, "Test User", foundByCPF.Name)
	assert.Equal(t, created.PasswordHash, foundByCPF.PasswordHash)

	foundByID, err := userRepo.GetByID(ctx, created.ID)
	require.NoError(t, err, "Failed to get user by ID")
	assert.Equal(t, created.ID, foundByID.ID)
}

func TestUserRepository_GetByCPF_NotFound(t *testing.T) {
	ctx := context.Background()
	userRepo := NewUserRepository(testPool)

	_, err := userRepo.GetByCPF(ctx, "00000000000")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	userRepo := NewUserRepository(testPool)

	_, err := userRepo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserRepository_DuplicateCPF(t *testing.T) {
	ctx := context.Background()
	userRepo := NewUserRepository(testPool)

	created := createTestUser(t)

	dup, err := domain.NewUser(domain.UserRegistrationParams{
		Name:        "Other User",
		CPF:         created.CPF,
		PhoneNumber: "+55 11 9" + randomCPF()[:8],
		Password:    "SecurePass123",
	})
	require.NoError(t, err)

	_, err = userRepo.Create(ctx, dup)
	assert.ErrorIs(t, err, apperrors.ErrUserExists)
}
