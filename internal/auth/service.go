package auth

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dkralj/workshop-management/internal"
)

// Credentials is the single-pass read model for login: the user row together
// with its aggregated role names (raw array literal, filtered later).
type Credentials struct {
	UserID       string `db:"user_id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	Status       string `db:"status"`
	PasswordHash string `db:"password_hash"`
	Roles        string `db:"roles"`
}

// Profile is the per-request read model used by the role resolver.
type Profile struct {
	UserID   string `db:"user_id"`
	Username string `db:"username"`
	Email    string `db:"email"`
	Status   string `db:"status"`
	Roles    string `db:"roles"`
}

type Repository interface {
	GetCredentialsByUsername(ctx context.Context, username string) (*Credentials, error)
	GetProfileByID(ctx context.Context, userID string) (*Profile, error)
}

// SessionRecorder persists the audit record of a successful login. The
// session ledger owns the rows; auth only writes them.
type SessionRecorder interface {
	Record(ctx context.Context, userID, ipAddress, userAgent string, expiresAt time.Time) error
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO, clientIP, userAgent string) (*LoginResult, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	CurrentUser(ctx context.Context, userID string) (*UserProfile, error)
	HashPassword(password string) (string, error)
}

type Service struct {
	repo     Repository
	sessions SessionRecorder
	tokens   *TokenIssuer
	logger   *slog.Logger

	bcryptCost int
}

func NewService(repo Repository, sessions SessionRecorder, tokens *TokenIssuer, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		sessions:   sessions,
		tokens:     tokens,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Authenticate verifies credentials, mints a bearer token and records the
// login in the session ledger. The ledger insert happens before the token is
// handed out, so a failed insert aborts the whole login.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO, clientIP, userAgent string) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	creds, err := s.repo.GetCredentialsByUsername(ctx, dto.Username)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Code == internal.ErrCodeUserNotFound {
			// Indistinguishable from a wrong password: no user-enumeration signal.
			return nil, internal.ErrInvalidCredentials
		}
		s.logger.Error("credential lookup failed", "error", err)
		return nil, internal.NewInternalError("login failed", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)) != nil {
		return nil, internal.ErrInvalidCredentials
	}

	// Status is checked only after the password verified, so an
	// unauthenticated guess cannot probe for disabled accounts.
	if creds.Status != "active" {
		return nil, internal.ErrAccountInactive
	}

	token, expiresAt, err := s.tokens.Issue(creds.UserID)
	if err != nil {
		s.logger.Error("token issuance failed", "error", err, "user_id", creds.UserID)
		return nil, internal.NewInternalError("login failed", err)
	}

	if err := s.sessions.Record(ctx, creds.UserID, clientIP, userAgent, expiresAt); err != nil {
		s.logger.Error("session record failed", "error", err, "user_id", creds.UserID)
		return nil, internal.NewInternalError("login failed", err)
	}

	s.logger.Info("user logged in", "user_id", creds.UserID, "username", creds.Username)

	return &LoginResult{
		Token: token,
		User: &UserSummary{
			UserID:   creds.UserID,
			Username: creds.Username,
			Email:    creds.Email,
			Roles:    ParseRoleArray(creds.Roles),
		},
	}, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.Validate(tokenString)
}

// CurrentUser re-reads the caller's profile and role set from the database.
// Every authorization decision starts here; nothing is cached across
// requests.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*UserProfile, error) {
	row, err := s.repo.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserProfile{
		ID:       row.UserID,
		Username: row.Username,
		Email:    row.Email,
		Status:   row.Status,
		Roles:    ParseRoleArray(row.Roles),
	}, nil
}

// HashPassword is invoked only at user-creation time.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
