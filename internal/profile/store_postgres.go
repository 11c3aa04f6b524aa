package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"apotheca/pkg/platform/sentinel"
)

// PostgresStore persists profile documents in PostgreSQL. The favorites
// array lives in a text[] column; MutateFavorites takes a row lock so the
// read-modify-write is serialized per profile.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the backing table. Intended for dev and integration
// tests; production schemas are managed externally.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS user_profiles (
			uid                 TEXT PRIMARY KEY,
			email               TEXT NOT NULL,
			role                TEXT NOT NULL,
			favorites           TEXT[] NOT NULL DEFAULT '{}',
			created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_password_reset TIMESTAMPTZ
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate user_profiles: %w", err)
	}
	return nil
}

func (s *PostgresStore) Set(ctx context.Context, p Profile) error {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_profiles (uid, email, role, favorites, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, p.UID, p.Email, p.Role, pq.Array(p.Favorites), createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, uid string) (Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT uid, email, role, favorites, created_at, last_password_reset
		FROM user_profiles WHERE uid = $1
	`, uid)
	return scanProfile(row)
}

func (s *PostgresStore) SetLastPasswordReset(ctx context.Context, uid string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE user_profiles SET last_password_reset = $2 WHERE uid = $1
	`, uid, at)
	if err != nil {
		return fmt.Errorf("stamp password reset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("stamp password reset: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) MutateFavorites(ctx context.Context, uid string, fn func(current []string) ([]string, error)) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin favorites mutation: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current []string
	err = tx.QueryRowContext(ctx, `
		SELECT favorites FROM user_profiles WHERE uid = $1 FOR UPDATE
	`, uid).Scan(pq.Array(&current))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE user_profiles SET favorites = $2 WHERE uid = $1
	`, uid, pq.Array(next)); err != nil {
		return nil, fmt.Errorf("store favorites: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit favorites mutation: %w", err)
	}
	return next, nil
}

func scanProfile(row *sql.Row) (Profile, error) {
	var (
		p     Profile
		reset sql.NullTime
	)
	err := row.Scan(&p.UID, &p.Email, &p.Role, pq.Array(&p.Favorites), &p.CreatedAt, &reset)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("scan profile: %w", err)
	}
	if reset.Valid {
		p.LastPasswordReset = reset.Time
	}
	return p, nil
}
