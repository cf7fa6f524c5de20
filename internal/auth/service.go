package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/meal-hub/internal/config"
	"github.com/fdg312/meal-hub/internal/storage"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidEmail = errors.New("invalid email")
)

// Service issues and verifies access tokens. In dev mode a sign-in by
// email is enough; the matching user is created on first use.
type Service struct {
	config *config.Config
	users  storage.UsersStorage
}

func NewService(cfg *config.Config, users storage.UsersStorage) *Service {
	return &Service{
		config: cfg,
		users:  users,
	}
}

// SignInDev finds or creates a user by email and issues a 30-day token.
func (s *Service) SignInDev(ctx context.Context, req *DevAuthRequest) (*DevAuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	user, err := s.findOrCreateUser(ctx, email, strings.TrimSpace(req.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to get/create user: %w", err)
	}

	const devTTL = 30 * 24 * time.Hour
	accessToken, err := s.generateJWTWithTTL(user.ID, devTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dev JWT: %w", err)
	}

	return &DevAuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(devTTL.Seconds()),
		UserID:      user.ID,
	}, nil
}

func (s *Service) findOrCreateUser(ctx context.Context, email, name string) (storage.User, error) {
	user, found, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return storage.User{}, err
	}
	if found {
		return user, nil
	}

	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	user = storage.User{
		Email: email,
		Name:  name,
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		return storage.User{}, err
	}

	return user, nil
}

func (s *Service) generateJWT(userID string) (string, error) {
	return s.generateJWTWithTTL(userID, time.Duration(s.config.JWTTTLMinutes)*time.Minute)
}

func (s *Service) generateJWTWithTTL(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub": userID,
		"iss": s.config.JWTIssuer,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// VerifyJWT validates a token and returns its subject (user id).
func (s *Service) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		return "", ErrInvalidToken
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		sub, ok := claims["sub"].(string)
		if !ok {
			return "", ErrInvalidToken
		}
		return sub, nil
	}

	return "", ErrInvalidToken
}
