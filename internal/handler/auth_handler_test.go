package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thehamzam/kyc-idp/internal/domain"
	"github.com/thehamzam/kyc-idp/internal/handler"
	"github.com/thehamzam/kyc-idp/internal/service"
	"github.com/thehamzam/kyc-idp/mocks"
)

func authRouter(h *handler.AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.RefreshToken)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func tokenPair() *service.TokenPair {
	return &service.TokenPair{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(15 * time.Minute),
	}
}

func TestRegister_Created(t *testing.T) {
	svc := &mocks.MockAuthService{}
	h := handler.NewAuthHandler(svc)

	user := &domain.User{ID: uuid.New(), Email: "jane@example.com"}
	svc.On("Register", mock.Anything, mock.MatchedBy(func(in service.RegisterInput) bool {
		return in.Email == "jane@example.com"
	})).Return(user, tokenPair(), nil)

	rec := postJSON(t, authRouter(h), "/auth/register", map[string]string{
		"email":    "jane@example.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestRegister_ShortPasswordRejected(t *testing.T) {
	h := handler.NewAuthHandler(&mocks.MockAuthService{})

	rec := postJSON(t, authRouter(h), "/auth/register", map[string]string{
		"email":    "jane@example.com",
		"password": "short",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := &mocks.MockAuthService{}
	h := handler.NewAuthHandler(svc)

	svc.On("Register", mock.Anything, mock.Anything).Return(nil, nil, domain.ErrDuplicateEmail)

	rec := postJSON(t, authRouter(h), "/auth/register", map[string]string{
		"email":    "taken@example.com",
		"password": "supersecret",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin_Success(t *testing.T) {
	svc := &mocks.MockAuthService{}
	h := handler.NewAuthHandler(svc)

	svc.On("Login", mock.Anything, mock.Anything).Return(tokenPair(), nil)

	rec := postJSON(t, authRouter(h), "/auth/login", map[string]string{
		"email":    "jane@example.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool              `json:"success"`
		Data    service.TokenPair `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "access-token", resp.Data.AccessToken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &mocks.MockAuthService{}
	h := handler.NewAuthHandler(svc)

	svc.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidCredentials)

	rec := postJSON(t, authRouter(h), "/auth/login", map[string]string{
		"email":    "jane@example.com",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_Success(t *testing.T) {
	svc := &mocks.MockAuthService{}
	h := handler.NewAuthHandler(svc)

	svc.On("RefreshToken", mock.Anything, "refresh-token").Return(tokenPair(), nil)

	rec := postJSON(t, authRouter(h), "/auth/refresh", map[string]string{
		"refresh_token": "refresh-token",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefresh_MissingToken(t *testing.T) {
	h := handler.NewAuthHandler(&mocks.MockAuthService{})

	rec := postJSON(t, authRouter(h), "/auth/refresh", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
