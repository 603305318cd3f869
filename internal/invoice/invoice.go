package invoice

import (
	"context"
	"time"

	"github.com/dkralj/workshop-management/internal/auth"
)

// Summary is a row of the invoice_summary view: the invoice joined with its
// work order, vehicle and customer, plus the computed days_overdue column.
type Summary struct {
	InvoiceID       string     `db:"invoice_id" json:"invoice_id"`
	InvoiceNumber   string     `db:"invoice_number" json:"invoice_number"`
	Status          string     `db:"status" json:"status"`
	TotalAmount     float64    `db:"total_amount" json:"total_amount"`
	TaxAmount       *float64   `db:"tax_amount" json:"tax_amount"`
	IssuedAt        time.Time  `db:"issued_at" json:"issued_at"`
	PaidAt          *time.Time `db:"paid_at" json:"paid_at"`
	CustomerName    string     `db:"customer_name" json:"customer_name"`
	CustomerEmail   string     `db:"customer_email" json:"customer_email"`
	WorkOrderID     string     `db:"work_order_id" json:"work_order_id"`
	WorkDescription string     `db:"work_description" json:"work_description"`
	LicensePlate    string     `db:"license_plate" json:"license_plate"`
	DaysOverdue     *float64   `db:"days_overdue" json:"days_overdue"`
}

type Repository interface {
	ListAll(ctx context.Context) ([]Summary, error)
	ListForCustomer(ctx context.Context, customerID string) ([]Summary, error)
	MarkPaid(ctx context.Context, invoiceID string) error
}

type ServiceAPI interface {
	List(ctx context.Context, profile *auth.UserProfile) ([]Summary, error)
	MarkPaid(ctx context.Context, profile *auth.UserProfile, invoiceID string) error
}
