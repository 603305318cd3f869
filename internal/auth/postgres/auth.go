package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/dkralj/workshop-management/internal"
	"github.com/dkralj/workshop-management/internal/auth"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// GetCredentialsByUsername resolves the user row together with its
// aggregated role names in one pass. A user without roles aggregates to
// `{NULL}`; the caller filters that out.
func (r *Repository) GetCredentialsByUsername(ctx context.Context, username string) (*auth.Credentials, error) {
	const query = `
		SELECT u.user_id, u.username, u.email, u.status, u.password_hash,
		       array_agg(r.role_name)::text AS roles
		FROM users u
		LEFT JOIN user_roles ur ON u.user_id = ur.user_id
		LEFT JOIN roles r ON ur.role_id = r.role_id
		WHERE u.username = $1
		GROUP BY u.user_id`

	var creds auth.Credentials
	if err := r.db.GetContext(ctx, &creds, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewInternalError("credential lookup failed", err)
	}
	return &creds, nil
}

func (r *Repository) GetProfileByID(ctx context.Context, userID string) (*auth.Profile, error) {
	const query = `
		SELECT u.user_id, u.username, u.email, u.status,
		       array_agg(r.role_name)::text AS roles
		FROM users u
		LEFT JOIN user_roles ur ON u.user_id = ur.user_id
		LEFT JOIN roles r ON ur.role_id = r.role_id
		WHERE u.user_id = $1
		GROUP BY u.user_id`

	var profile auth.Profile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewInternalError("profile lookup failed", err)
	}
	return &profile, nil
}
