package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dkralj/workshop-management/internal/stats"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Counts(ctx context.Context) (totalUsers, totalVehicles, totalWorkOrders, pendingOrders, activeOrders int, err error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM vehicles) AS total_vehicles,
			(SELECT COUNT(*) FROM work_orders) AS total_work_orders,
			(SELECT COUNT(*) FROM work_orders WHERE status IN ('pending', 'approved')) AS pending_orders,
			(SELECT COUNT(*) FROM work_orders WHERE status = 'in_progress') AS active_orders`

	row := r.db.QueryRowContext(ctx, query)
	if err = row.Scan(&totalUsers, &totalVehicles, &totalWorkOrders, &pendingOrders, &activeOrders); err != nil {
		err = fmt.Errorf("failed to load dashboard counts: %w", err)
	}
	return
}

func (r *Repository) TopMechanics(ctx context.Context, limit int) ([]stats.TopMechanic, error) {
	query := `
		SELECT username, completed_jobs, total_hours_worked
		FROM mechanic_performance
		WHERE completed_jobs > 0
		ORDER BY completed_jobs DESC
		LIMIT $1`

	mechanics := []stats.TopMechanic{}
	if err := r.db.SelectContext(ctx, &mechanics, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list top mechanics: %w", err)
	}
	return mechanics, nil
}

func (r *Repository) RecentActivities(ctx context.Context, limit int) ([]stats.ActivityItem, error) {
	query := `
		SELECT al.action_type, al.table_name, al.timestamp, u.username
		FROM audit_log al
		LEFT JOIN users u ON al.user_id = u.user_id
		ORDER BY al.timestamp DESC
		LIMIT $1`

	activities := []stats.ActivityItem{}
	if err := r.db.SelectContext(ctx, &activities, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent activities: %w", err)
	}
	return activities, nil
}

func (r *Repository) MechanicPerformance(ctx context.Context, userID string) (*stats.MechanicPerformance, error) {
	query := `
		SELECT user_id, username, email, total_jobs, completed_jobs, active_jobs,
		       total_hours_worked, avg_completion_days
		FROM mechanic_performance
		WHERE user_id = $1`

	var performance stats.MechanicPerformance
	if err := r.db.GetContext(ctx, &performance, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A mechanic with no orders yet still gets an empty scorecard.
			return &stats.MechanicPerformance{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to load mechanic performance: %w", err)
	}
	return &performance, nil
}

func (r *Repository) MechanicWorkload(ctx context.Context, userID string) (*stats.Workload, error) {
	query := `
		SELECT active_orders, pending_orders, hours_last_30_days, oldest_active_from
		FROM get_mechanic_workload($1)`

	var workload stats.Workload
	if err := r.db.GetContext(ctx, &workload, query, userID); err != nil {
		return nil, fmt.Errorf("failed to load mechanic workload: %w", err)
	}
	return &workload, nil
}

func (r *Repository) CustomerStatistics(ctx context.Context, userID string) (*stats.CustomerStatistics, error) {
	query := `
		SELECT user_id, username, email, vehicle_count, total_work_orders,
		       completed_orders, total_spent, unpaid_invoices, last_visit
		FROM customer_statistics
		WHERE user_id = $1`

	var statistics stats.CustomerStatistics
	if err := r.db.GetContext(ctx, &statistics, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &stats.CustomerStatistics{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to load customer statistics: %w", err)
	}
	return &statistics, nil
}

func (r *Repository) CustomerVehicles(ctx context.Context, userID string) ([]stats.CustomerVehicle, error) {
	query := `
		SELECT vehicle_id, license_plate, brand, model, year,
		       total_services, total_spent, last_service_date
		FROM get_customer_vehicles($1)`

	vehicles := []stats.CustomerVehicle{}
	if err := r.db.SelectContext(ctx, &vehicles, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list customer vehicles: %w", err)
	}
	return vehicles, nil
}
