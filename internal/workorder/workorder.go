package workorder

import (
	"context"
	"time"

	"github.com/dkralj/workshop-management/internal/auth"
)

// Work order statuses. Transitions are driven by the front desk; the data
// layer does not enforce an order between them.
const (
	StatusPending    = "pending"
	StatusApproved   = "approved"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Detail is a row of the work_orders_detailed view: the order joined with
// its vehicle, customer and assigned mechanic, plus the view's computed
// columns.
type Detail struct {
	WorkOrderID    string     `db:"work_order_id" json:"work_order_id"`
	Status         string     `db:"status" json:"status"`
	Description    string     `db:"description" json:"description"`
	EstimatedCost  *float64   `db:"estimated_cost" json:"estimated_cost"`
	ActualCost     *float64   `db:"actual_cost" json:"actual_cost"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	StartedAt      *time.Time `db:"started_at" json:"started_at"`
	CompletedAt    *time.Time `db:"completed_at" json:"completed_at"`
	LicensePlate   string     `db:"license_plate" json:"license_plate"`
	Brand          string     `db:"brand" json:"brand"`
	Model          string     `db:"model" json:"model"`
	Year           *int       `db:"year" json:"year"`
	CustomerID     string     `db:"customer_id" json:"customer_id"`
	CustomerName   string     `db:"customer_name" json:"customer_name"`
	CustomerEmail  string     `db:"customer_email" json:"customer_email"`
	MechanicID     *string    `db:"mechanic_id" json:"mechanic_id"`
	MechanicName   *string    `db:"mechanic_name" json:"mechanic_name"`
	CompletionDays *float64   `db:"completion_days" json:"completion_days"`
	HasInvoice     bool       `db:"has_invoice" json:"has_invoice"`
}

// WorkLog is one mechanic log entry attached to a work order.
type WorkLog struct {
	LogID        string    `db:"log_id" json:"log_id"`
	LogEntry     string    `db:"log_entry" json:"log_entry"`
	HoursWorked  *float64  `db:"hours_worked" json:"hours_worked"`
	Timestamp    time.Time `db:"timestamp" json:"timestamp"`
	MechanicName string    `db:"mechanic_name" json:"mechanic_name"`
}

// DetailWithLogs is the single-order response shape.
type DetailWithLogs struct {
	Detail
	WorkLogs []WorkLog `json:"work_logs"`
}

type CreateDTO struct {
	VehicleID          string   `json:"vehicle_id"`
	AssignedMechanicID *string  `json:"assigned_mechanic_id"`
	Description        string   `json:"description"`
	EstimatedCost      *float64 `json:"estimated_cost"`
	Status             string   `json:"status"`
}

type StatusDTO struct {
	Status string `json:"status"`
}

type AssignDTO struct {
	MechanicID *string `json:"mechanic_id"`
}

type AddLogDTO struct {
	LogEntry    string   `json:"log_entry"`
	HoursWorked *float64 `json:"hours_worked"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func validStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (d CreateDTO) Validate() error {
	if d.VehicleID == "" {
		return ValidationError{Msg: "vehicle_id is required"}
	}
	if d.Description == "" {
		return ValidationError{Msg: "description is required"}
	}
	if d.Status != "" && !validStatus(d.Status) {
		return ValidationError{Msg: "invalid status"}
	}
	return nil
}

func (d StatusDTO) Validate() error {
	if !validStatus(d.Status) {
		return ValidationError{Msg: "invalid status"}
	}
	return nil
}

func (d AddLogDTO) Validate() error {
	if d.LogEntry == "" {
		return ValidationError{Msg: "log_entry is required"}
	}
	return nil
}

type Repository interface {
	ListAll(ctx context.Context) ([]Detail, error)
	ListForMechanic(ctx context.Context, mechanicID string) ([]Detail, error)
	ListForCustomer(ctx context.Context, customerID string) ([]Detail, error)
	GetByID(ctx context.Context, orderID string) (*Detail, error)
	GetWorkLogs(ctx context.Context, orderID string) ([]WorkLog, error)
	GetAssignedMechanic(ctx context.Context, orderID string) (*string, error)
	Create(ctx context.Context, dto CreateDTO, createdBy string) (string, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
	AssignMechanic(ctx context.Context, orderID string, mechanicID *string) error
	AddLog(ctx context.Context, orderID, mechanicID string, dto AddLogDTO) error
}

type ServiceAPI interface {
	List(ctx context.Context, profile *auth.UserProfile) ([]Detail, error)
	Get(ctx context.Context, profile *auth.UserProfile, orderID string) (*DetailWithLogs, error)
	Create(ctx context.Context, profile *auth.UserProfile, dto CreateDTO) (string, error)
	UpdateStatus(ctx context.Context, profile *auth.UserProfile, orderID string, dto StatusDTO) error
	AssignMechanic(ctx context.Context, profile *auth.UserProfile, orderID string, dto AssignDTO) error
	AddLog(ctx context.Context, profile *auth.UserProfile, orderID string, dto AddLogDTO) error
}
