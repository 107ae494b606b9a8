package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

const DefaultTTL = 24 * time.Hour

type Servicer interface {
	Create(ctx context.Context, profileID string) (string, error)
	Validate(ctx context.Context, token string) (string, error)
}

type Service struct {
	repo Repository
	ttl  time.Duration
	log  *slog.Logger
}

func NewService(repo Repository, ttl time.Duration, log *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		repo: repo,
		ttl:  ttl,
		log:  log.With("component", "session_service"),
	}
}

func (s *Service) Create(ctx context.Context, profileID string) (string, error) {
	// Генерация токена
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	token := base64.URLEncoding.EncodeToString(tokenBytes)

	expiresAt := time.Now().Add(s.ttl)
	if err := s.repo.Create(ctx, profileID, hashToken(token), expiresAt); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	return token, nil
}

func (s *Service) Validate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrEmptyToken
	}
	return s.repo.Validate(ctx, hashToken(token))
}

// Cleanup удаляет истекшие сессии
func (s *Service) Cleanup(ctx context.Context) error {
	n, err := s.repo.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	if n > 0 {
		s.log.Debug("expired sessions removed", "count", n)
	}
	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
