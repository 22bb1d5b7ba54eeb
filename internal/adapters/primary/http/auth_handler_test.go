package http

import (
	"bytes"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/queuedesk/queue-backend/internal/auth"
	"github.com/queuedesk/queue-backend/internal/core/domain"
	apperrors "github.com/queuedesk/queue-backend/internal/core/errors"
	"github.com/queuedesk/queue-backend/internal/core/mocks"
	"github.com/queuedesk/queue-backend/internal/core/services"
)

type authRouterFixture struct {
	router *chi.Mux
	users  *mocks.MockUserRepository
	tm     *auth.TokenManager
}

func newAuthRouter(t *testing.T) *authRouterFixture {
	t.Helper()

	users := new(mocks.MockUserRepository)
	tm := auth.NewTokenManager("test-secret", time.Hour)

	service := services.NewAuthService(users)
	handler := NewAuthHandler(service, tm, NewErrorHandler(discardLogger()), discardLogger())

	router := chi.NewRouter()
	router.Route("/auth", handler.RegisterRoutes)

	return &authRouterFixture{router: router, users: users, tm: tm}
}

func TestAuthHandler_Register(t *testing.T) {
	registerBody := `{
		"name": "Jose Silva",
		"cpf": "529.982.247-25",
		"phoneNumber": "11987654321",
		"password": "SecurePass123"
	}`

	t.Run("registers and returns a working token", func(t *testing.T) {
		f := newAuthRouter(t)

		userID := uuid.New()
		f.users.On("GetByCPF", mock.Anything, "52998224725").Return(nil, apperrors.ErrUserNotFound)
		f.users.On("Create", mock.Anything, mock.Anything).Return(&domain.User{
			ID:          userID,
			Name:        "Jose Silva",
			CPF:         "52998224725",
			PhoneNumber: "11987654321",
			CreatedAt:   time.Now().UTC(),
		}, nil)

		req := httptest.NewRequest(stdhttp.MethodPost, "/auth/register", bytes.NewBufferString(registerBody))
		recorder := httptest.NewRecorder()

		f.router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusCreated, recorder.Code)

		var response TokenResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.Equal(t, userID.String(), response.User.ID)
		assert.Equal(t, "52998224725", response.User.CPF)

		claims, err := f.tm.ValidateToken(response.Token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	t.Run("maps duplicate CPF to 409", func(t *testing.T) {
		f := newAuthRouter(t)

		f.users.On("GetByCPF", mock.Anything, "52998224725").Return(&domain.User{
			ID:  uuid.New(),
			CPF: "52998224725",
		}, nil)

		req := httptest.NewRequest(stdhttp.MethodPost, "/auth/register", bytes.NewBufferString(registerBody))
		recorder := httptest.NewRecorder()

		f.router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusConflict, recorder.Code)
	})

	t.Run("rejects weak password with field errors", func(t *testing.T) {
		f := newAuthRouter(t)

		body := `{
			"name": "Jose Silva",
			"cpf": "529.982.247-25",
			"phoneNumber": "11987654321",
			"password": "short"
		}`
		req := httptest.NewRequest(stdhttp.MethodPost, "/auth/register", bytes.NewBufferString(body))
		recorder := httptest.NewRecorder()

		f.router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusUnprocessableEntity, recorder.Code)

		var response ValidationErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.Contains(t, response.Fields, "password")
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	passwordHash := func(t *testing.T, password string) string {
		t.Helper()
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		return string(hash)
	}

	t.Run("logs in with CPF and password", func(t *testing.T) {
		f := newAuthRouter(t)

		userID := uuid.New()
		f.users.On("GetByCPF", mock.Anything, "52998224725").Return(&domain.User{
			ID:           userID,
			Name:         "Jose Silva",
			CPF:          "52998224725",
			PasswordHash: passwordHash(t, "SecurePass123"),
		}, nil)

		body := `{"cpf": "529.982.247-25", "password": "SecurePass123"}`
		req := httptest.NewRequest(stdhttp.MethodPost, "/auth/login", bytes.NewBufferString(body))
		recorder := httptest.NewRecorder()

		f.router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusOK, recorder.Code)

		var response TokenResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.NotEmpty(t, response.Token)
		assert.Equal(t, userID.String(), response.User.ID)
	})

	t.Run("maps wrong password to 401", func(t *testing.T) {
		f := newAuthRouter(t)

		f.users.On("GetByCPF", mock.Anything, "52998224725").Return(&domain.User{
			ID:           uuid.New(),
			CPF:          "52998224725",
			PasswordHash: passwordHash(t, "SecurePass123"),
		}, nil)

		body := `{"cpf": "529.982.247-25", "password": "WrongPass123"}`
		req := httptest.NewRequest(stdhttp.MethodPost, "/auth/login", bytes.NewBufferString(body))
		recorder := httptest.NewRecorder()

		f.router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusUnauthorized, recorder.Code)
	})

	t.Run("does not reveal unknown CPFs", func(t *testing.T) {
		f := newAuthRouter(t)

		f.users.On("GetByCPF", mock.Anything, mock.Anything).Return(nil, apperrors.ErrUserNotFound)

		body := `{"cpf": "529.982.247-25", "password": "SecurePass123"}`
		req := httptest.NewRequest(stdhttp.MethodPost, "/auth/login", bytes.NewBufferString(body))
		recorder := httptest.NewRecorder()

		f.router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusUnauthorized, recorder.Code)
	})
}
