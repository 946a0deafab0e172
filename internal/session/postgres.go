package session

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/models"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/repository"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/security"
)

// PostgresManager persists sessions in the shared relational store so every
// server instance resolves the same tokens.
type PostgresManager struct {
	sessions *repository.SessionRepository
	ttl      time.Duration
}

func NewPostgresManager(sessions *repository.SessionRepository, ttl time.Duration) *PostgresManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PostgresManager{sessions: sessions, ttl: ttl}
}

func (m *PostgresManager) Create(ctx context.Context, userID int64) (string, error) {
	token, tokenHash, err := security.GenerateSessionToken()
	if err != nil {
		return "", err
	}

	session := models.Session{
		ID:        ksuid.New().String(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(m.ttl),
	}

	if err := m.sessions.Create(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

func (m *PostgresManager) Resolve(ctx context.Context, token string) (int64, error) {
	session, err := m.sessions.FindByTokenHash(ctx, security.HashSessionToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return 0, ErrUnauthenticated
		}
		return 0, err
	}

	if !session.ExpiresAt.After(time.Now()) {
		_ = m.sessions.DeleteByTokenHash(ctx, session.TokenHash)
		return 0, ErrUnauthenticated
	}
	return session.UserID, nil
}

func (m *PostgresManager) Destroy(ctx context.Context, token string) error {
	return m.sessions.DeleteByTokenHash(ctx, security.HashSessionToken(token))
}

func (m *PostgresManager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.sessions.DeleteExpired(ctx)
}
