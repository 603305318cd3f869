package user

import (
	"context"
	"log/slog"

	"github.com/dkralj/workshop-management/internal"
	"github.com/dkralj/workshop-management/internal/auth"
)

type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, logger: logger}
}

// List returns the administrative user summary; owner only.
func (s *Service) List(ctx context.Context, profile *auth.UserProfile) ([]Summary, error) {
	if !profile.HasAnyRole(auth.RoleOwner) {
		return nil, internal.ErrForbidden
	}

	rows, err := s.repo.ListSummaries(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}

	summaries := make([]Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, row.ToSummary())
	}
	return summaries, nil
}

// Create registers a new user; owner only. The password is hashed here and
// never stored in the clear.
func (s *Service) Create(ctx context.Context, profile *auth.UserProfile, dto CreateUserDTO) (string, error) {
	if !profile.HasAnyRole(auth.RoleOwner) {
		return "", internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return "", err
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("password hashing failed", "error", err)
		return "", internal.NewInternalError("failed to create user", err)
	}

	userID, err := s.repo.Create(ctx, dto, hash, profile.ID)
	if err != nil {
		s.logger.Error("failed to create user", "error", err, "username", dto.Username)
		return "", err
	}

	s.logger.Info("user created", "user_id", userID, "username", dto.Username, "created_by", profile.ID)
	return userID, nil
}

// Update mutates a user row. A caller may update their own limited fields;
// only an owner may update anyone and flip status.
func (s *Service) Update(ctx context.Context, profile *auth.UserProfile, targetID string, dto UpdateUserDTO) error {
	isOwner := profile.HasAnyRole(auth.RoleOwner)
	if !isOwner && profile.ID != targetID {
		return internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, targetID, dto, isOwner); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", targetID)
		return err
	}

	s.logger.Info("user updated", "user_id", targetID, "updated_by", profile.ID)
	return nil
}

// Permissions resolves the target's effective permissions through the
// get_user_permissions database routine; self or owner only.
func (s *Service) Permissions(ctx context.Context, profile *auth.UserProfile, targetID string) ([]Permission, error) {
	if !profile.HasAnyRole(auth.RoleOwner) && profile.ID != targetID {
		return nil, internal.ErrForbidden
	}

	perms, err := s.repo.GetPermissions(ctx, targetID)
	if err != nil {
		s.logger.Error("failed to get permissions", "error", err, "user_id", targetID)
		return nil, err
	}
	return perms, nil
}

func (s *Service) Roles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

func (s *Service) Mechanics(ctx context.Context) ([]Mechanic, error) {
	return s.repo.ListMechanics(ctx)
}

func (s *Service) Customers(ctx context.Context) ([]Customer, error) {
	return s.repo.ListCustomers(ctx)
}
