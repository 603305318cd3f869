package vehicle

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

// List returns all vehicles for workshop staff and only the caller's own
// vehicles for everyone else.
func (s *Service) List(ctx context.Context, profile *auth.UserProfile) ([]Vehicle, error) {
	if profile.HasAnyRole(auth.RoleOwner, auth.RoleReceptionist, auth.RoleMechanic, auth.RoleHeadMechanic) {
		vehicles, err := s.repo.ListAll(ctx)
		if err != nil {
			s.logger.Error("failed to list vehicles", "error", err)
			return nil, err
		}
		return vehicles, nil
	}

	vehicles, err := s.repo.ListForOwner(ctx, profile.ID)
	if err != nil {
		s.logger.Error("failed to list own vehicles", "error", err, "user_id", profile.ID)
		return nil, err
	}
	return vehicles, nil
}

// Create registers a vehicle. Owner and receptionist may register for any
// customer; a customer may only register a vehicle as their own, so the
// owner id is forced to the caller. Anyone else is refused.
func (s *Service) Create(ctx context.Context, profile *auth.UserProfile, dto CreateVehicleDTO) (string, error) {
	isFrontDesk := profile.HasAnyRole(auth.RoleOwner, auth.RoleReceptionist)

	switch {
	case profile.HasRole(auth.RoleCustomer) && !isFrontDesk:
		dto.OwnerID = profile.ID
	case !isFrontDesk:
		return "", internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return "", err
	}

	vehicleID, err := s.repo.Create(ctx, dto)
	if err != nil {
		s.logger.Error("failed to create vehicle", "error", err, "owner_id", dto.OwnerID)
		return "", err
	}

	s.logger.Info("vehicle registered", "vehicle_id", vehicleID, "owner_id", dto.OwnerID, "created_by", profile.ID)
	return vehicleID, nil
}
