package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/thehamzam/kyc-idp/internal/domain"
	"github.com/thehamzam/kyc-idp/internal/middleware"
	"github.com/thehamzam/kyc-idp/internal/service"
	"github.com/thehamzam/kyc-idp/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(authSvc service.AuthService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.AuthMiddleware(authSvc))
	r.GET("/whoami", func(c *gin.Context) {
		userID, _ := middleware.GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "email": middleware.GetEmail(c)})
	})
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	svc := &mocks.MockAuthService{}
	userID := uuid.New()
	svc.On("ValidateToken", "good-token").Return(&service.Claims{
		UserID: userID,
		Email:  "jane@example.com",
	}, nil)

	r := protectedRouter(svc)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), userID.String())
	assert.Contains(t, rec.Body.String(), "jane@example.com")
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := protectedRouter(&mocks.MockAuthService{})
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	r := protectedRouter(&mocks.MockAuthService{})
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	svc := &mocks.MockAuthService{}
	svc.On("ValidateToken", "bad-token").Return(nil, domain.ErrUnauthorized)

	r := protectedRouter(svc)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
