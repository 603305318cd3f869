package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dkralj/workshop-management/internal"
	"github.com/dkralj/workshop-management/internal/user"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListSummaries(ctx context.Context) ([]user.SummaryRow, error) {
	const query = `
		SELECT user_id, username, email, status,
		       roles::text AS roles, highest_priority, role_count, last_login
		FROM user_roles_summary
		ORDER BY highest_priority, username`

	rows := []user.SummaryRow{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return rows, nil
}

// Create inserts the user and, when a role name was given, the initial role
// membership in one transaction.
func (r *Repository) Create(ctx context.Context, dto user.CreateUserDTO, passwordHash, createdBy string) (string, error) {
	metadata, err := json.Marshal(orEmpty(dto.Metadata))
	if err != nil {
		return "", internal.NewInternalError("failed to encode metadata", err)
	}

	status := dto.Status
	if status == "" {
		status = "active"
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", internal.NewInternalError("failed to create user", err)
	}
	defer tx.Rollback()

	const insertUser = `
		INSERT INTO users (username, email, password_hash, phone, status, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING user_id`

	var userID string
	if err := tx.GetContext(ctx, &userID, insertUser, dto.Username, dto.Email, passwordHash, dto.Phone, status, metadata); err != nil {
		return "", internal.NewInternalError("failed to create user", err)
	}

	if dto.RoleName != "" {
		const insertRole = `
			INSERT INTO user_roles (user_id, role_id, assigned_by)
			SELECT $1, role_id, $2
			FROM roles WHERE role_name = $3`

		if _, err := tx.ExecContext(ctx, insertRole, userID, createdBy, dto.RoleName); err != nil {
			return "", internal.NewInternalError("failed to assign role", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", internal.NewInternalError("failed to create user", err)
	}
	return userID, nil
}

// Update applies only the fields present in the DTO. Status changes are
// gated by the caller through allowStatus.
func (r *Repository) Update(ctx context.Context, userID string, dto user.UpdateUserDTO, allowStatus bool) error {
	set := []string{}
	args := []interface{}{}

	appendSet := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, column)
	}

	if dto.Email != nil {
		appendSet("email", *dto.Email)
	}
	if dto.Phone != nil {
		appendSet("phone", *dto.Phone)
	}
	if dto.Metadata != nil {
		metadata, err := json.Marshal(dto.Metadata)
		if err != nil {
			return internal.NewInternalError("failed to encode metadata", err)
		}
		appendSet("metadata", metadata)
	}
	if dto.Status != nil && allowStatus {
		appendSet("status", *dto.Status)
	}

	if len(set) == 0 {
		return nil
	}

	query := "UPDATE users SET "
	for i, column := range set {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("%s = $%d", column, i+1)
	}
	args = append(args, userID)
	query += fmt.Sprintf(" WHERE user_id = $%d", len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return internal.NewInternalError("failed to update user", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *Repository) GetPermissions(ctx context.Context, userID string) ([]user.Permission, error) {
	const query = `
		SELECT permission_name, resource_type, action
		FROM get_user_permissions($1)`

	perms := []user.Permission{}
	if err := r.db.SelectContext(ctx, &perms, query, userID); err != nil {
		return nil, internal.NewInternalError("failed to get permissions", err)
	}
	return perms, nil
}

func (r *Repository) ListRoles(ctx context.Context) ([]user.Role, error) {
	const query = `SELECT role_id, role_name, description, priority FROM roles ORDER BY priority`

	roles := []user.Role{}
	if err := r.db.SelectContext(ctx, &roles, query); err != nil {
		return nil, internal.NewInternalError("failed to list roles", err)
	}
	return roles, nil
}

func (r *Repository) ListMechanics(ctx context.Context) ([]user.Mechanic, error) {
	const query = `
		SELECT DISTINCT u.user_id, u.username
		FROM users u
		JOIN user_roles ur ON u.user_id = ur.user_id
		JOIN roles ro ON ur.role_id = ro.role_id
		WHERE ro.role_name IN ('mechanic', 'head_mechanic', 'owner')
		  AND u.status = 'active'
		ORDER BY u.username`

	mechanics := []user.Mechanic{}
	if err := r.db.SelectContext(ctx, &mechanics, query); err != nil {
		return nil, internal.NewInternalError("failed to list mechanics", err)
	}
	return mechanics, nil
}

func (r *Repository) ListCustomers(ctx context.Context) ([]user.Customer, error) {
	const query = `
		SELECT u.user_id, u.username, u.email
		FROM users u
		JOIN user_roles ur ON u.user_id = ur.user_id
		JOIN roles ro ON ur.role_id = ro.role_id
		WHERE ro.role_name = 'customer'
		  AND u.status = 'active'
		ORDER BY u.username`

	customers := []user.Customer{}
	if err := r.db.SelectContext(ctx, &customers, query); err != nil {
		return nil, internal.NewInternalError("failed to list customers", err)
	}
	return customers, nil
}

func orEmpty(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}
