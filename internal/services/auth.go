package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const sessionKeyPrefix = "admin_session:"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthDisabled       = errors.New("admin password not configured")
)

// AuthServiceInterface lets handlers and middleware depend on an interface
// for testing.
type AuthServiceInterface interface {
	Login(ctx context.Context, password string) (string, error)
	ValidateSession(ctx context.Context, token string) (bool, error)
	Logout(ctx context.Context, token string) error
	SessionTTL() time.Duration
}

// AuthService authenticates the single admin credential and keeps session
// tokens in Redis with a TTL.
type AuthService struct {
	redis        RedisClient
	passwordHash []byte
	sessionTTL   time.Duration
}

func NewAuthService(redisClient RedisClient, password string, sessionTTL time.Duration) (*AuthService, error) {
	svc := &AuthService{
		redis:      redisClient,
		sessionTTL: sessionTTL,
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing admin password: %w", err)
		}
		svc.passwordHash = hash
	}
	return svc, nil
}

func (s *AuthService) Login(ctx context.Context, password string) (string, error) {
	if len(s.passwordHash) == 0 {
		return "", ErrAuthDisabled
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := generateSessionToken()
	if err != nil {
		return "", err
	}
	if err := s.redis.Set(ctx, sessionKeyPrefix+token, "1", s.sessionTTL); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	return token, nil
}

func (s *AuthService) ValidateSession(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	_, err := s.redis.Get(ctx, sessionKeyPrefix+token)
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading session: %w", err)
	}
	return true, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.redis.Del(ctx, sessionKeyPrefix+token); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

func generateSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

var _ AuthServiceInterface = (*AuthService)(nil)
