package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dkralj/workshop-management/internal"
	"github.com/dkralj/workshop-management/internal/session"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Record inserts the login audit row. Also satisfies auth.SessionRecorder.
func (r *Repository) Record(ctx context.Context, userID, ipAddress, userAgent string, expiresAt time.Time) error {
	const query = `
		INSERT INTO sessions (user_id, ip_address, user_agent, expires_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, userID, ipAddress, userAgent, expiresAt); err != nil {
		return internal.NewInternalError("failed to record session", err)
	}
	return nil
}

// ListAll reads the active_sessions view: active, unexpired sessions across
// all users.
func (r *Repository) ListAll(ctx context.Context) ([]session.Session, error) {
	const query = `
		SELECT session_id, user_id, username, ip_address, user_agent, created_at, expires_at
		FROM active_sessions
		ORDER BY created_at DESC`

	sessions := []session.Session{}
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, internal.NewInternalError("failed to list sessions", err)
	}
	return sessions, nil
}

func (r *Repository) ListForUser(ctx context.Context, userID string) ([]session.OwnSession, error) {
	const query = `
		SELECT session_id, ip_address, created_at, expires_at,
		       EXTRACT(EPOCH FROM (expires_at - CURRENT_TIMESTAMP)) / 60 AS minutes_until_expiry
		FROM sessions
		WHERE user_id = $1 AND is_active = true AND expires_at > CURRENT_TIMESTAMP
		ORDER BY created_at DESC`

	sessions := []session.OwnSession{}
	if err := r.db.SelectContext(ctx, &sessions, query, userID); err != nil {
		return nil, internal.NewInternalError("failed to list sessions", err)
	}
	return sessions, nil
}

func (r *Repository) GetOwner(ctx context.Context, sessionID string) (string, error) {
	const query = `SELECT user_id FROM sessions WHERE session_id = $1`

	var ownerID string
	if err := r.db.GetContext(ctx, &ownerID, query, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", internal.ErrSessionNotFound
		}
		return "", internal.NewInternalError("session lookup failed", err)
	}
	return ownerID, nil
}

// Deactivate marks the session revoked. The row is kept.
func (r *Repository) Deactivate(ctx context.Context, sessionID string) error {
	const query = `UPDATE sessions SET is_active = false WHERE session_id = $1`

	if _, err := r.db.ExecContext(ctx, query, sessionID); err != nil {
		return internal.NewInternalError("failed to revoke session", err)
	}
	return nil
}
