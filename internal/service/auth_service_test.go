package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/thehamzam/kyc-idp/internal/config"
	"github.com/thehamzam/kyc-idp/internal/domain"
	"github.com/thehamzam/kyc-idp/internal/service"
	"github.com/thehamzam/kyc-idp/mocks"
)

func jwtCfg() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-do-not-use",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		Issuer:             "kyc-idp-test",
	}
}

func activeUser(email, password string) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
}

func TestRegister_CreatesUserAndReturnsTokens(t *testing.T) {
	repo := &mocks.MockUserRepo{}
	svc := service.NewAuthService(repo, jwtCfg())

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, pair, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "  Jane@Example.COM ",
		Password: "supersecret",
		FullName: "Jane Doe",
	})

	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "supersecret", user.PasswordHash)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mocks.MockUserRepo{}
	svc := service.NewAuthService(repo, jwtCfg())

	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)

	_, _, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "taken@example.com",
		Password: "supersecret",
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestLogin_Success(t *testing.T) {
	repo := &mocks.MockUserRepo{}
	svc := service.NewAuthService(repo, jwtCfg())

	user := activeUser("jane@example.com", "supersecret")
	repo.On("GetByEmail", mock.Anything, "jane@example.com").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "jane@example.com",
		Password: "supersecret",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.True(t, pair.ExpiresAt.After(time.Now()))
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := &mocks.MockUserRepo{}
	svc := service.NewAuthService(repo, jwtCfg())

	user := activeUser("jane@example.com", "supersecret")
	repo.On("GetByEmail", mock.Anything, "jane@example.com").Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "jane@example.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UnknownEmailMapsToInvalidCredentials(t *testing.T) {
	repo := &mocks.MockUserRepo{}
	svc := service.NewAuthService(repo, jwtCfg())

	repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, domain.ErrNotFound)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	// Unknown email and wrong password look identical to the caller.
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	repo := &mocks.MockUserRepo{}
	svc := service.NewAuthService(repo, jwtCfg())

	user := activeUser("jane@example.com", "supersecret")
	user.IsActive = false
	repo.On("GetByEmail", mock.Anything, "jane@example.com").Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "jane@example.com",
		Password: "supersecret",
	})

	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	repo := &mocks.MockUserRepo{}
	svc := service.NewAuthService(repo, jwtCfg())

	user := activeUser("jane@example.com", "supersecret")
	repo.On("GetByEmail", mock.Anything, "jane@example.com").Return(user, nil)
	repo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "jane@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	repo := &mocks.MockUserRepo{}
	svc := service.NewAuthService(repo, jwtCfg())

	user := activeUser("jane@example.com", "supersecret")
	repo.On("GetByEmail", mock.Anything, "jane@example.com").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "jane@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	// An access token must not pass as a refresh token.
	_, err = svc.RefreshToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidateToken_RejectsRefreshToken(t *testing.T) {
	repo := &mocks.MockUserRepo{}
	svc := service.NewAuthService(repo, jwtCfg())

	user := activeUser("jane@example.com", "supersecret")
	repo.On("GetByEmail", mock.Anything, "jane@example.com").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "jane@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := service.NewAuthService(&mocks.MockUserRepo{}, jwtCfg())

	_, err := svc.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
