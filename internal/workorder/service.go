package workorder

import (
	"context"
	"log/slog"

	"github.com/dkralj/workshop-management/internal"
	"github.com/dkralj/workshop-management/internal/auth"
	"github.com/dkralj/workshop-management/internal/core/events"
)

type Service struct {
	repo     Repository
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo Repository, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, logger: logger}
}

// fullAccess covers the roles that see and manage every work order.
func fullAccess(profile *auth.UserProfile) bool {
	return profile.HasAnyRole(auth.RoleOwner, auth.RoleReceptionist, auth.RoleHeadMechanic)
}

func (s *Service) List(ctx context.Context, profile *auth.UserProfile) ([]Detail, error) {
	switch {
	case fullAccess(profile):
		return s.repo.ListAll(ctx)
	case profile.HasRole(auth.RoleMechanic):
		return s.repo.ListForMechanic(ctx, profile.ID)
	case profile.HasRole(auth.RoleCustomer):
		return s.repo.ListForCustomer(ctx, profile.ID)
	}
	return []Detail{}, nil
}

func (s *Service) Get(ctx context.Context, profile *auth.UserProfile, orderID string) (*DetailWithLogs, error) {
	detail, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !fullAccess(profile) {
		switch {
		case profile.HasRole(auth.RoleMechanic):
			if detail.MechanicID == nil || *detail.MechanicID != profile.ID {
				return nil, internal.ErrForbidden
			}
		case profile.HasRole(auth.RoleCustomer):
			if detail.CustomerID != profile.ID {
				return nil, internal.ErrForbidden
			}
		default:
			return nil, internal.ErrForbidden
		}
	}

	logs, err := s.repo.GetWorkLogs(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &DetailWithLogs{Detail: *detail, WorkLogs: logs}, nil
}

func (s *Service) Create(ctx context.Context, profile *auth.UserProfile, dto CreateDTO) (string, error) {
	if !fullAccess(profile) {
		return "", internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return "", err
	}
	if dto.Status == "" {
		dto.Status = StatusPending
	}

	orderID, err := s.repo.Create(ctx, dto, profile.ID)
	if err != nil {
		return "", err
	}

	s.logger.Info("work order created",
		slog.String("work_order_id", orderID),
		slog.String("created_by", profile.ID))
	s.eventBus.Publish(ctx, events.NewWorkOrderCreatedEvent(orderID, dto.VehicleID, profile.ID))
	return orderID, nil
}

func (s *Service) UpdateStatus(ctx context.Context, profile *auth.UserProfile, orderID string, dto StatusDTO) error {
	if !fullAccess(profile) && !profile.HasRole(auth.RoleMechanic) {
		return internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	// A plain mechanic may only move orders assigned to them.
	if profile.HasRole(auth.RoleMechanic) && !fullAccess(profile) {
		assigned, err := s.repo.GetAssignedMechanic(ctx, orderID)
		if err != nil {
			return err
		}
		if assigned == nil || *assigned != profile.ID {
			return internal.ErrForbidden
		}
	}

	if err := s.repo.UpdateStatus(ctx, orderID, dto.Status); err != nil {
		return err
	}

	s.eventBus.Publish(ctx, events.NewWorkOrderStatusChangedEvent(orderID, dto.Status, profile.ID))
	return nil
}

func (s *Service) AssignMechanic(ctx context.Context, profile *auth.UserProfile, orderID string, dto AssignDTO) error {
	if !profile.HasAnyRole(auth.RoleOwner, auth.RoleHeadMechanic, auth.RoleReceptionist) {
		return internal.ErrForbidden
	}
	if err := s.repo.AssignMechanic(ctx, orderID, dto.MechanicID); err != nil {
		return err
	}

	s.eventBus.Publish(ctx, events.NewMechanicAssignedEvent(orderID, dto.MechanicID, profile.ID))
	return nil
}

func (s *Service) AddLog(ctx context.Context, profile *auth.UserProfile, orderID string, dto AddLogDTO) error {
	if !profile.HasAnyRole(auth.RoleOwner, auth.RoleHeadMechanic, auth.RoleMechanic) {
		return internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	if profile.HasRole(auth.RoleMechanic) && !profile.HasAnyRole(auth.RoleOwner, auth.RoleHeadMechanic) {
		assigned, err := s.repo.GetAssignedMechanic(ctx, orderID)
		if err != nil {
			return err
		}
		if assigned == nil || *assigned != profile.ID {
			return internal.ErrForbidden
		}
	}

	return s.repo.AddLog(ctx, orderID, profile.ID, dto)
}
