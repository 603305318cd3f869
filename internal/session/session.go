package session

import (
	"context"
	"time"

	"github.com/dkralj/workshop-management/internal/auth"
)

// Session is the persisted, revocable audit record of a login event. It is
// distinct from the bearer token: revoking a session does not invalidate a
// token that is still cryptographically valid.
//
// Lifecycle: created (active, unexpired) -> expired (time-driven, the row is
// never touched) or revoked (is_active flipped to false). Both are terminal;
// rows are never deleted.
type Session struct {
	SessionID string    `db:"session_id" json:"session_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Username  string    `db:"username" json:"username"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}

// OwnSession is the reduced listing a non-owner caller gets for their own
// sessions, annotated with minutes remaining until expiry.
type OwnSession struct {
	SessionID          string    `db:"session_id" json:"session_id"`
	IPAddress          string    `db:"ip_address" json:"ip_address"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	ExpiresAt          time.Time `db:"expires_at" json:"expires_at"`
	MinutesUntilExpiry float64   `db:"minutes_until_expiry" json:"minutes_until_expiry"`
}

type Repository interface {
	Record(ctx context.Context, userID, ipAddress, userAgent string, expiresAt time.Time) error
	ListAll(ctx context.Context) ([]Session, error)
	ListForUser(ctx context.Context, userID string) ([]OwnSession, error)
	GetOwner(ctx context.Context, sessionID string) (string, error)
	Deactivate(ctx context.Context, sessionID string) error
}

type ServiceAPI interface {
	List(ctx context.Context, profile *auth.UserProfile) (interface{}, error)
	Revoke(ctx context.Context, sessionID string, profile *auth.UserProfile) error
}
