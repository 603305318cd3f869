package stats

import (
	"context"
	"time"

	"github.com/dkralj/workshop-management/internal/auth"
)

// Dashboard is the shop-wide overview returned to every authenticated user.
// RecentActivities is populated only for owner and head_mechanic.
type Dashboard struct {
	TotalUsers       int            `json:"total_users"`
	TotalVehicles    int            `json:"total_vehicles"`
	TotalWorkOrders  int            `json:"total_work_orders"`
	PendingOrders    int            `json:"pending_orders"`
	ActiveOrders     int            `json:"active_orders"`
	TopMechanics     []TopMechanic  `json:"top_mechanics"`
	RecentActivities []ActivityItem `json:"recent_activities"`
}

type TopMechanic struct {
	Username         string   `db:"username" json:"username"`
	CompletedJobs    int      `db:"completed_jobs" json:"completed_jobs"`
	TotalHoursWorked *float64 `db:"total_hours_worked" json:"total_hours_worked"`
}

type ActivityItem struct {
	ActionType string    `db:"action_type" json:"action_type"`
	TableName  string    `db:"table_name" json:"table_name"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
	Username   *string   `db:"username" json:"username"`
}

// MechanicPerformance is a row of the mechanic_performance view.
type MechanicPerformance struct {
	UserID            string   `db:"user_id" json:"user_id"`
	Username          string   `db:"username" json:"username"`
	Email             string   `db:"email" json:"email"`
	TotalJobs         int      `db:"total_jobs" json:"total_jobs"`
	CompletedJobs     int      `db:"completed_jobs" json:"completed_jobs"`
	ActiveJobs        int      `db:"active_jobs" json:"active_jobs"`
	TotalHoursWorked  *float64 `db:"total_hours_worked" json:"total_hours_worked"`
	AvgCompletionDays *float64 `db:"avg_completion_days" json:"avg_completion_days"`
}

// Workload is the result of the get_mechanic_workload function.
type Workload struct {
	ActiveOrders     int        `db:"active_orders" json:"active_orders"`
	PendingOrders    int        `db:"pending_orders" json:"pending_orders"`
	HoursLast30Days  *float64   `db:"hours_last_30_days" json:"hours_last_30_days"`
	OldestActiveFrom *time.Time `db:"oldest_active_from" json:"oldest_active_from"`
}

type MechanicDashboard struct {
	MechanicPerformance
	Workload *Workload `json:"workload"`
}

// CustomerStatistics is a row of the customer_statistics view.
type CustomerStatistics struct {
	UserID          string     `db:"user_id" json:"user_id"`
	Username        string     `db:"username" json:"username"`
	Email           string     `db:"email" json:"email"`
	VehicleCount    int        `db:"vehicle_count" json:"vehicle_count"`
	TotalWorkOrders int        `db:"total_work_orders" json:"total_work_orders"`
	CompletedOrders int        `db:"completed_orders" json:"completed_orders"`
	TotalSpent      *float64   `db:"total_spent" json:"total_spent"`
	UnpaidInvoices  int        `db:"unpaid_invoices" json:"unpaid_invoices"`
	LastVisit       *time.Time `db:"last_visit" json:"last_visit"`
}

// CustomerVehicle is a row of the get_customer_vehicles function.
type CustomerVehicle struct {
	VehicleID       string     `db:"vehicle_id" json:"vehicle_id"`
	LicensePlate    string     `db:"license_plate" json:"license_plate"`
	Brand           string     `db:"brand" json:"brand"`
	Model           string     `db:"model" json:"model"`
	Year            *int       `db:"year" json:"year"`
	TotalServices   int        `db:"total_services" json:"total_services"`
	TotalSpent      *float64   `db:"total_spent" json:"total_spent"`
	LastServiceDate *time.Time `db:"last_service_date" json:"last_service_date"`
}

type CustomerDashboard struct {
	CustomerStatistics
	Vehicles []CustomerVehicle `json:"vehicles"`
}

type Repository interface {
	Counts(ctx context.Context) (totalUsers, totalVehicles, totalWorkOrders, pendingOrders, activeOrders int, err error)
	TopMechanics(ctx context.Context, limit int) ([]TopMechanic, error)
	RecentActivities(ctx context.Context, limit int) ([]ActivityItem, error)
	MechanicPerformance(ctx context.Context, userID string) (*MechanicPerformance, error)
	MechanicWorkload(ctx context.Context, userID string) (*Workload, error)
	CustomerStatistics(ctx context.Context, userID string) (*CustomerStatistics, error)
	CustomerVehicles(ctx context.Context, userID string) ([]CustomerVehicle, error)
}

type ServiceAPI interface {
	Dashboard(ctx context.Context, profile *auth.UserProfile) (*Dashboard, error)
	MechanicDashboard(ctx context.Context, profile *auth.UserProfile) (*MechanicDashboard, error)
	CustomerDashboard(ctx context.Context, profile *auth.UserProfile) (*CustomerDashboard, error)
}
