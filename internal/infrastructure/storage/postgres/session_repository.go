package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"paintpro/internal/domain/session"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"
)

type SessionRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewSessionRepository(db *Storage, log *slog.Logger) *SessionRepository {
	return &SessionRepository{
		db:  db,
		log: log.With("component", "session_repository"),
	}
}

func (r *SessionRepository) Create(ctx context.Context, profileID string, tokenHash string, expiresAt time.Time) error {
	_, err := r.db.Pool().Exec(ctx,
		`INSERT INTO sessions (profile_id, token_hash, expires_at)
		 VALUES ($1, decode($2, 'hex'), $3)`,
		profileID, tokenHash, expiresAt)
	return err
}

func (r *SessionRepository) Validate(ctx context.Context, tokenHash string) (string, error) {
	var profileID string
	err := r.db.Pool().QueryRow(ctx,
		`SELECT profile_id FROM sessions
		 WHERE token_hash = decode($1, 'hex') AND expires_at > NOW()`,
		tokenHash).Scan(&profileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", session.ErrInvalidSession
		}
		return "", fmt.Errorf("validate session: %w", err)
	}
	return profileID, nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Pool().Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
