package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/thinhtt264/snaplet-core-service/internal/mocks"
	"github.com/thinhtt264/snaplet-core-service/internal/models"
	"github.com/thinhtt264/snaplet-core-service/internal/repositories"
)

type fakeTokenRepo struct {
	stored map[string]*models.RefreshToken // keyed by userID+"/"+deviceID
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{stored: map[string]*models.RefreshToken{}}
}

func (f *fakeTokenRepo) Upsert(ctx context.Context, userID, deviceID, hashedToken string, expiresAt time.Time) error {
	f.stored[userID+"/"+deviceID] = &models.RefreshToken{
		UserID:      userID,
		DeviceID:    deviceID,
		HashedToken: hashedToken,
		ExpiresAt:   expiresAt,
	}
	return nil
}

func (f *fakeTokenRepo) FindByUserAndDevice(ctx context.Context, userID, deviceID string) (*models.RefreshToken, error) {
	token, ok := f.stored[userID+"/"+deviceID]
	if !ok || token.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	return token, nil
}

func (f *fakeTokenRepo) DeleteByUserAndDevice(ctx context.Context, userID, deviceID string) error {
	delete(f.stored, userID+"/"+deviceID)
	return nil
}

var _ repositories.RefreshTokenRepository = (*fakeTokenRepo)(nil)

func newAuthService(users repositories.UserRepository, tokens repositories.RefreshTokenRepository) *AuthService {
	return NewAuthService(users, tokens, "test-secret", 5*time.Minute, 30*24*time.Hour)
}

func TestLoginSuccess(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.DefaultCost)
	require.NoError(t, err)

	users := new(mocks.MockUserRepository)
	users.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(&models.User{ID: "u1", Email: "alice@example.com", PasswordHash: string(hash)}, nil).Once()

	tokens := newFakeTokenRepo()
	svc := newAuthService(users, tokens)

	result, err := svc.Login(context.Background(), "alice@example.com", "hunter2hunter2", "dev-1")
	require.NoError(t, err)
	require.Equal(t, "u1", result.User.ID)
	require.NotEmpty(t, result.Tokens.AccessToken)
	require.NotEmpty(t, result.Tokens.RefreshToken)
	require.NotNil(t, tokens.stored["u1/dev-1"])

	users.AssertExpectations(t)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)

	users := new(mocks.MockUserRepository)
	users.On("GetByEmail", mock.Anything, "alice@example.com").
		Return(&models.User{ID: "u1", PasswordHash: string(hash)}, nil).Once()

	svc := newAuthService(users, newFakeTokenRepo())

	_, err := svc.Login(context.Background(), "alice@example.com", "wrong", "dev-1")
	require.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("GetByEmail", mock.Anything, "nobody@example.com").
		Return(nil, models.ErrUserNotFound).Once()

	svc := newAuthService(users, newFakeTokenRepo())

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever", "dev-1")
	require.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestAccessTokenCarriesUserID(t *testing.T) {
	svc := newAuthService(new(mocks.MockUserRepository), newFakeTokenRepo())

	tokenString, err := svc.GenerateAccessToken("u42")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "u42", claims["userId"])
}

func TestRefreshRotatesToken(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("GetByEmail", mock.Anything, mock.Anything).
		Return(&models.User{ID: "u1", PasswordHash: mustHash(t, "pw-pw-pw-pw")}, nil).Once()

	tokens := newFakeTokenRepo()
	svc := newAuthService(users, tokens)

	result, err := svc.Login(context.Background(), "a@b.c", "pw-pw-pw-pw", "dev-1")
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), result.Tokens.RefreshToken, result.Tokens.AccessToken, "dev-1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEqual(t, result.Tokens.RefreshToken, pair.RefreshToken)

	// The old refresh token no longer matches the stored hash.
	_, err = svc.Refresh(context.Background(), result.Tokens.RefreshToken, result.Tokens.AccessToken, "dev-1")
	require.ErrorIs(t, err, models.ErrInvalidRefreshToken)
}

func TestRefreshUnknownDevice(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("GetByEmail", mock.Anything, mock.Anything).
		Return(&models.User{ID: "u1", PasswordHash: mustHash(t, "pw-pw-pw-pw")}, nil).Once()

	tokens := newFakeTokenRepo()
	svc := newAuthService(users, tokens)

	result, err := svc.Login(context.Background(), "a@b.c", "pw-pw-pw-pw", "dev-1")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), result.Tokens.RefreshToken, result.Tokens.AccessToken, "other-device")
	require.ErrorIs(t, err, models.ErrInvalidRefreshToken)
}

func TestLogoutRemovesToken(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("GetByEmail", mock.Anything, mock.Anything).
		Return(&models.User{ID: "u1", PasswordHash: mustHash(t, "pw-pw-pw-pw")}, nil).Once()

	tokens := newFakeTokenRepo()
	svc := newAuthService(users, tokens)

	_, err := svc.Login(context.Background(), "a@b.c", "pw-pw-pw-pw", "dev-1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), "u1", "dev-1"))
	require.Nil(t, tokens.stored["u1/dev-1"])
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return string(hash)
}
