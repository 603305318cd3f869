package session

import (
	"context"
	"log/slog"

	"github.com/dkralj/workshop-management/internal"
	"github.com/dkralj/workshop-management/internal/auth"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns active, unexpired sessions. An owner-role caller sees the
// ledger system-wide; everyone else sees only their own sessions, annotated
// with minutes remaining.
func (s *Service) List(ctx context.Context, profile *auth.UserProfile) (interface{}, error) {
	if profile.HasAnyRole(auth.RoleOwner) {
		sessions, err := s.repo.ListAll(ctx)
		if err != nil {
			s.logger.Error("failed to list sessions", "error", err)
			return nil, err
		}
		return sessions, nil
	}

	sessions, err := s.repo.ListForUser(ctx, profile.ID)
	if err != nil {
		s.logger.Error("failed to list own sessions", "error", err, "user_id", profile.ID)
		return nil, err
	}
	return sessions, nil
}

// Revoke flips is_active to false. It does not delete the row and does not
// invalidate tokens already issued against the session. Non-owner callers
// may only revoke a session they own, verified by a lookup before mutation.
func (s *Service) Revoke(ctx context.Context, sessionID string, profile *auth.UserProfile) error {
	if !profile.HasAnyRole(auth.RoleOwner) {
		ownerID, err := s.repo.GetOwner(ctx, sessionID)
		if err != nil {
			s.logger.Error("failed to resolve session owner", "error", err, "session_id", sessionID)
			return err
		}
		if ownerID != profile.ID {
			s.logger.Warn("session revocation denied", "session_id", sessionID, "user_id", profile.ID)
			return internal.ErrForbidden
		}
	}

	if err := s.repo.Deactivate(ctx, sessionID); err != nil {
		s.logger.Error("failed to revoke session", "error", err, "session_id", sessionID)
		return err
	}

	s.logger.Info("session revoked", "session_id", sessionID, "revoked_by", profile.ID)
	return nil
}
