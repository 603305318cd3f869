package stats

import (
	"context"
	"log/slog"

	"github.com/dkralj/workshop-management/internal"
	"github.com/dkralj/workshop-management/internal/auth"
)

const (
	topMechanicsLimit     = 5
	recentActivitiesLimit = 10
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Dashboard(ctx context.Context, profile *auth.UserProfile) (*Dashboard, error) {
	dashboard := &Dashboard{}

	var err error
	dashboard.TotalUsers, dashboard.TotalVehicles, dashboard.TotalWorkOrders,
		dashboard.PendingOrders, dashboard.ActiveOrders, err = s.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}

	dashboard.TopMechanics, err = s.repo.TopMechanics(ctx, topMechanicsLimit)
	if err != nil {
		return nil, err
	}

	dashboard.RecentActivities = []ActivityItem{}
	if profile.HasAnyRole(auth.RoleOwner, auth.RoleHeadMechanic) {
		dashboard.RecentActivities, err = s.repo.RecentActivities(ctx, recentActivitiesLimit)
		if err != nil {
			return nil, err
		}
	}

	return dashboard, nil
}

func (s *Service) MechanicDashboard(ctx context.Context, profile *auth.UserProfile) (*MechanicDashboard, error) {
	if !profile.HasAnyRole(auth.RoleMechanic, auth.RoleHeadMechanic) {
		return nil, internal.ErrForbidden
	}

	performance, err := s.repo.MechanicPerformance(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	workload, err := s.repo.MechanicWorkload(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	return &MechanicDashboard{MechanicPerformance: *performance, Workload: workload}, nil
}

func (s *Service) CustomerDashboard(ctx context.Context, profile *auth.UserProfile) (*CustomerDashboard, error) {
	if !profile.HasRole(auth.RoleCustomer) {
		return nil, internal.ErrForbidden
	}

	statistics, err := s.repo.CustomerStatistics(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	vehicles, err := s.repo.CustomerVehicles(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	return &CustomerDashboard{CustomerStatistics: *statistics, Vehicles: vehicles}, nil
}
