package user

import (
	"context"
	"time"

	"github.com/dkralj/workshop-management/internal/auth"
)

// SummaryRow is the user_roles_summary view shape: one row per user with
// aggregated role names and the precedence metadata the view computes.
type SummaryRow struct {
	UserID          string     `db:"user_id"`
	Username        string     `db:"username"`
	Email           string     `db:"email"`
	Status          string     `db:"status"`
	Roles           string     `db:"roles"`
	HighestPriority int        `db:"highest_priority"`
	RoleCount       int        `db:"role_count"`
	LastLogin       *time.Time `db:"last_login"`
}

// Summary is the API shape for an administrative user listing.
type Summary struct {
	UserID          string     `json:"user_id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	Status          string     `json:"status"`
	Roles           []string   `json:"roles"`
	HighestPriority int        `json:"highest_priority"`
	RoleCount       int        `json:"role_count"`
	LastLogin       *time.Time `json:"last_login"`
}

func (r SummaryRow) ToSummary() Summary {
	return Summary{
		UserID:          r.UserID,
		Username:        r.Username,
		Email:           r.Email,
		Status:          r.Status,
		Roles:           auth.ParseRoleArray(r.Roles),
		HighestPriority: r.HighestPriority,
		RoleCount:       r.RoleCount,
		LastLogin:       r.LastLogin,
	}
}

// Role is static reference data, read-only from the caller's perspective.
type Role struct {
	RoleID      int    `db:"role_id" json:"role_id"`
	RoleName    string `db:"role_name" json:"role_name"`
	Description string `db:"description" json:"description"`
	Priority    int    `db:"priority" json:"priority"`
}

// Permission is one row of the get_user_permissions database function.
type Permission struct {
	PermissionName string `db:"permission_name" json:"permission_name"`
	ResourceType   string `db:"resource_type" json:"resource_type"`
	Action         string `db:"action" json:"action"`
}

// Mechanic is the picker shape for assigning work orders.
type Mechanic struct {
	UserID   string `db:"user_id" json:"user_id"`
	Username string `db:"username" json:"username"`
}

type Customer struct {
	UserID   string `db:"user_id" json:"user_id"`
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
}

type Repository interface {
	ListSummaries(ctx context.Context) ([]SummaryRow, error)
	Create(ctx context.Context, dto CreateUserDTO, passwordHash, createdBy string) (string, error)
	Update(ctx context.Context, userID string, dto UpdateUserDTO, allowStatus bool) error
	GetPermissions(ctx context.Context, userID string) ([]Permission, error)
	ListRoles(ctx context.Context) ([]Role, error)
	ListMechanics(ctx context.Context) ([]Mechanic, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
}

// PasswordHasher is how the password hashing routine reaches this package;
// hashing happens only at user-creation time.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type ServiceAPI interface {
	List(ctx context.Context, profile *auth.UserProfile) ([]Summary, error)
	Create(ctx context.Context, profile *auth.UserProfile, dto CreateUserDTO) (string, error)
	Update(ctx context.Context, profile *auth.UserProfile, targetID string, dto UpdateUserDTO) error
	Permissions(ctx context.Context, profile *auth.UserProfile, targetID string) ([]Permission, error)
	Roles(ctx context.Context) ([]Role, error)
	Mechanics(ctx context.Context) ([]Mechanic, error)
	Customers(ctx context.Context) ([]Customer, error)
}
