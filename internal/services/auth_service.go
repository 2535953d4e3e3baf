package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/thinhtt264/snaplet-core-service/internal/models"
	"github.com/thinhtt264/snaplet-core-service/internal/repositories"
)

type AuthService struct {
	users      repositories.UserRepository
	tokens     repositories.RefreshTokenRepository
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(users repositories.UserRepository, tokens repositories.RefreshTokenRepository, jwtSecret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

type RegisterParams struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResult struct {
	Tokens TokenPair    `json:"token"`
	User   *models.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, params RegisterParams, deviceID string) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, repositories.CreateUserParams{
		Email:        params.Email,
		Username:     params.Username,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, deviceID)
}

func (s *AuthService) Login(ctx context.Context, email, password, deviceID string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user, deviceID)
}

// Refresh rotates the device's refresh token. The expired access token is
// parsed with signature verification but without claim validation, only to
// recover the user id the refresh token was stored under.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, accessToken, deviceID string) (*TokenPair, error) {
	userID, err := s.userIDFromToken(accessToken)
	if err != nil {
		return nil, models.ErrInvalidRefreshToken
	}

	stored, err := s.tokens.FindByUserAndDevice(ctx, userID, deviceID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, models.ErrInvalidRefreshToken
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.HashedToken), []byte(refreshToken)) != nil {
		return nil, models.ErrInvalidRefreshToken
	}

	newRefresh := uuid.NewString()
	if err := s.saveRefreshToken(ctx, userID, deviceID, newRefresh); err != nil {
		return nil, err
	}

	access, err := s.GenerateAccessToken(userID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: newRefresh}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID, deviceID string) error {
	return s.tokens.DeleteByUserAndDevice(ctx, userID, deviceID)
}

func (s *AuthService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	exists, err := s.users.EmailExists(ctx, email)
	return !exists, err
}

func (s *AuthService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	exists, err := s.users.UsernameExists(ctx, username)
	return !exists, err
}

func (s *AuthService) GenerateAccessToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": userID,
		"iat":    now.Unix(),
		"exp":    now.Add(s.accessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User, deviceID string) (*AuthResult, error) {
	access, err := s.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	refresh := uuid.NewString()
	if err := s.saveRefreshToken(ctx, user.ID, deviceID, refresh); err != nil {
		return nil, err
	}

	return &AuthResult{
		Tokens: TokenPair{AccessToken: access, RefreshToken: refresh},
		User:   user,
	}, nil
}

func (s *AuthService) saveRefreshToken(ctx context.Context, userID, deviceID, refreshToken string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(refreshToken), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash refresh token: %w", err)
	}
	return s.tokens.Upsert(ctx, userID, deviceID, string(hash), time.Now().Add(s.refreshTTL))
}

func (s *AuthService) userIDFromToken(accessToken string) (string, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, err := parser.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}
	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return userID, nil
}
