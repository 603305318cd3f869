package audit

import (
	"context"
	"time"
)

// Entry is a row of the audit_trail view: one change record with the acting
// user resolved to username and email.
type Entry struct {
	LogID      string    `db:"log_id" json:"log_id"`
	TableName  string    `db:"table_name" json:"table_name"`
	RecordID   *string   `db:"record_id" json:"record_id"`
	ActionType string    `db:"action_type" json:"action_type"`
	OldValue   *string   `db:"old_value" json:"old_value"`
	NewValue   *string   `db:"new_value" json:"new_value"`
	Username   *string   `db:"username" json:"username"`
	Email      *string   `db:"email" json:"email"`
	IPAddress  *string   `db:"ip_address" json:"ip_address"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
}

// Filter narrows the trail; zero values mean no constraint.
type Filter struct {
	TableName  string
	ActionType string
	Limit      int
}

const DefaultLimit = 100

// Audit rows are written by database triggers; the application only reads.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Entry, error)
}

type ServiceAPI interface {
	List(ctx context.Context, filter Filter) ([]Entry, error)
}
