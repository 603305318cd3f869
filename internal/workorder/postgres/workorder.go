package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dkralj/workshop-management/internal"
	"github.com/dkralj/workshop-management/internal/workorder"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const detailColumns = `
	work_order_id, status, description, estimated_cost, actual_cost,
	created_at, started_at, completed_at,
	license_plate, brand, model, year,
	customer_id, customer_name, customer_email,
	mechanic_id, mechanic_name,
	completion_days, has_invoice`

func (r *Repository) ListAll(ctx context.Context) ([]workorder.Detail, error) {
	query := fmt.Sprintf(`SELECT %s FROM work_orders_detailed ORDER BY created_at DESC`, detailColumns)

	orders := []workorder.Detail{}
	if err := r.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	return orders, nil
}

func (r *Repository) ListForMechanic(ctx context.Context, mechanicID string) ([]workorder.Detail, error) {
	query := fmt.Sprintf(`SELECT %s FROM work_orders_detailed WHERE mechanic_id = $1 ORDER BY created_at DESC`, detailColumns)

	orders := []workorder.Detail{}
	if err := r.db.SelectContext(ctx, &orders, query, mechanicID); err != nil {
		return nil, fmt.Errorf("failed to list work orders for mechanic: %w", err)
	}
	return orders, nil
}

func (r *Repository) ListForCustomer(ctx context.Context, customerID string) ([]workorder.Detail, error) {
	query := fmt.Sprintf(`SELECT %s FROM work_orders_detailed WHERE customer_id = $1 ORDER BY created_at DESC`, detailColumns)

	orders := []workorder.Detail{}
	if err := r.db.SelectContext(ctx, &orders, query, customerID); err != nil {
		return nil, fmt.Errorf("failed to list work orders for customer: %w", err)
	}
	return orders, nil
}

func (r *Repository) GetByID(ctx context.Context, orderID string) (*workorder.Detail, error) {
	query := fmt.Sprintf(`SELECT %s FROM work_orders_detailed WHERE work_order_id = $1`, detailColumns)

	var detail workorder.Detail
	if err := r.db.GetContext(ctx, &detail, query, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}
	return &detail, nil
}

func (r *Repository) GetWorkLogs(ctx context.Context, orderID string) ([]workorder.WorkLog, error) {
	query := `
		SELECT wl.log_id, wl.log_entry, wl.hours_worked, wl.timestamp,
		       u.username AS mechanic_name
		FROM work_log wl
		JOIN users u ON wl.mechanic_id = u.user_id
		WHERE wl.work_order_id = $1
		ORDER BY wl.timestamp DESC`

	logs := []workorder.WorkLog{}
	if err := r.db.SelectContext(ctx, &logs, query, orderID); err != nil {
		return nil, fmt.Errorf("failed to list work logs: %w", err)
	}
	return logs, nil
}

func (r *Repository) GetAssignedMechanic(ctx context.Context, orderID string) (*string, error) {
	var mechanicID sql.NullString
	err := r.db.GetContext(ctx, &mechanicID,
		`SELECT assigned_mechanic_id FROM work_orders WHERE work_order_id = $1`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("failed to get assigned mechanic: %w", err)
	}
	if !mechanicID.Valid {
		return nil, nil
	}
	return &mechanicID.String, nil
}

func (r *Repository) Create(ctx context.Context, dto workorder.CreateDTO, createdBy string) (string, error) {
	query := `
		INSERT INTO work_orders (vehicle_id, assigned_mechanic_id, description, estimated_cost, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING work_order_id`

	var orderID string
	err := r.db.QueryRowContext(ctx, query,
		dto.VehicleID, dto.AssignedMechanicID, dto.Description,
		dto.EstimatedCost, dto.Status, createdBy,
	).Scan(&orderID)
	if err != nil {
		return "", fmt.Errorf("failed to create work order: %w", err)
	}
	return orderID, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, orderID, status string) error {
	query := `
		UPDATE work_orders
		SET status = $1,
		    started_at = CASE WHEN $1 = 'in_progress' AND started_at IS NULL THEN CURRENT_TIMESTAMP ELSE started_at END,
		    completed_at = CASE WHEN $1 = 'completed' THEN CURRENT_TIMESTAMP ELSE completed_at END,
		    updated_at = CURRENT_TIMESTAMP
		WHERE work_order_id = $2`

	result, err := r.db.ExecContext(ctx, query, status, orderID)
	if err != nil {
		return fmt.Errorf("failed to update work order status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return internal.ErrWorkOrderNotFound
	}
	return nil
}

func (r *Repository) AssignMechanic(ctx context.Context, orderID string, mechanicID *string) error {
	query := `
		UPDATE work_orders
		SET assigned_mechanic_id = $1, updated_at = CURRENT_TIMESTAMP
		WHERE work_order_id = $2`

	result, err := r.db.ExecContext(ctx, query, mechanicID, orderID)
	if err != nil {
		return fmt.Errorf("failed to assign mechanic: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return internal.ErrWorkOrderNotFound
	}
	return nil
}

func (r *Repository) AddLog(ctx context.Context, orderID, mechanicID string, dto workorder.AddLogDTO) error {
	query := `
		INSERT INTO work_log (work_order_id, mechanic_id, log_entry, hours_worked)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, orderID, mechanicID, dto.LogEntry, dto.HoursWorked); err != nil {
		return fmt.Errorf("failed to add work log: %w", err)
	}
	return nil
}
