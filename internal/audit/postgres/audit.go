package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dkralj/workshop-management/internal/audit"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, error) {
	query := `
		SELECT log_id, table_name, record_id, action_type,
		       old_value, new_value, username, email, ip_address, timestamp
		FROM audit_trail
		WHERE 1=1`
	args := []interface{}{}

	if filter.TableName != "" {
		args = append(args, filter.TableName)
		query += fmt.Sprintf(" AND table_name = $%d", len(args))
	}
	if filter.ActionType != "" {
		args = append(args, filter.ActionType)
		query += fmt.Sprintf(" AND action_type = $%d", len(args))
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY timestamp DESC LIMIT $%d", len(args))

	entries := []audit.Entry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list audit trail: %w", err)
	}
	return entries, nil
}
