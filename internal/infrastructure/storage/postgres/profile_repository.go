package postgres

import (
	"context"
	"errors"
	"fmt"

	"paintpro/internal/domain/profile"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"
)

type ProfileRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewProfileRepository(db *Storage, log *slog.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:  db,
		log: log.With("component", "profile_repository"),
	}
}

func (r *ProfileRepository) List(ctx context.Context) ([]profile.Profile, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT id, name, avatar, color, pin_hash, is_admin, created_at
		 FROM profiles ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]profile.Profile, 0)
	for rows.Next() {
		var p profile.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Avatar, &p.Color, &p.PinHash, &p.IsAdmin, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (profile.Profile, error) {
	var p profile.Profile
	err := r.db.Pool().QueryRow(ctx,
		`SELECT id, name, avatar, color, pin_hash, is_admin, created_at
		 FROM profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Avatar, &p.Color, &p.PinHash, &p.IsAdmin, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, fmt.Errorf("find profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, p profile.Profile) error {
	_, err := r.db.Pool().Exec(ctx,
		`INSERT INTO profiles (id, name, avatar, color, pin_hash, is_admin, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.Avatar, p.Color, p.PinHash, p.IsAdmin, p.CreatedAt)
	if err != nil {
		r.log.Error("failed to insert profile", "id", p.ID, "error", err)
		return err
	}
	return nil
}

func (r *ProfileRepository) UpdatePin(ctx context.Context, id, pinHash string) error {
	tag, err := r.db.Pool().Exec(ctx, `UPDATE profiles SET pin_hash = $2 WHERE id = $1`, id, pinHash)
	if err != nil {
		return fmt.Errorf("update pin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrNotFound
	}
	return nil
}

// Delete удаляет профиль. Сессии уходят каскадом, заказы остаются.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool().Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
