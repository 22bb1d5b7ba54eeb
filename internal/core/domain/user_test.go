package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queuedesk/queue-backend/internal/core/domain"
	apperrors "github.com/queuedesk/queue-backend/internal/core/errors"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid password", "SecurePass123", true},
		{"too short", "Sec1", false},
		{"too long", strings.Repeat("Aa1", 50), false},
		{"no uppercase", "securepass123", false},
		{"no lowercase", "SECUREPASS123", false},
		{"no number", "SecurePassword", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := domain.ValidatePassword(tt.password)
			if tt.valid {
				assert.Empty(t, errs)
			} else {
				assert.NotEmpty(t, errs)
			}
		})
	}
}

func TestUserRegistrationParams_Validate(t *testing.T) {
	valid := domain.UserRegistrationParams{
		Name:        "Ana Castro",
		CPF:         "529.982.247-25",
		PhoneNumber: "+55 11 91234-5678",
		Password:    "SecurePass123",
	}

	t.Run("valid params", func(t *testing.T) {
		params := valid
		assert.NoError(t, params.Validate())
	})

	t.Run("cpf accepts punctuation but needs 11 digits", func(t *testing.T) {
		params := valid
		params.CPF = "529.982.247"

		err := params.Validate()
		var validationErrs *apperrors.ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		assert.Contains(t, validationErrs.Errors, "cpf")
	})

	t.Run("collects every failing field", func(t *testing.T) {
		params := domain.UserRegistrationParams{}

		err := params.Validate()
		var validationErrs *apperrors.ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		assert.Contains(t, validationErrs.Errors, "name")
		assert.Contains(t, validationErrs.Errors, "cpf")
		assert.Contains(t, validationErrs.Errors, "phoneNumber")
		assert.Contains(t, validationErrs.Errors, "password")
	})
}

func TestNewUser(t *testing.T) {
	t.Run("normalizes cpf and hashes the password", func(t *testing.T) {
		user, err := domain.NewUser(domain.UserRegistrationParams{
			Name:        "  Ana Castro  ",
			CPF:         "529.982.247-25",
			PhoneNumber: "+55 11 91234-5678",
			Password:    "SecurePass123",
		})

		require.NoError(t, err)
		assert.Equal(t, "Ana Castro", user.Name)
		assert.Equal(t, "52998224725", user.CPF)
		assert.NotEqual(t, "SecurePass123", user.PasswordHash)
		assert.True(t, user.CheckPassword("SecurePass123"))
		assert.False(t, user.CheckPassword("WrongPass123"))
	})
}
