package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dkralj/workshop-management/internal"
	"github.com/dkralj/workshop-management/internal/invoice"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const summaryColumns = `
	invoice_id, invoice_number, status, total_amount, tax_amount,
	issued_at, paid_at, customer_name, customer_email,
	work_order_id, work_description, license_plate, days_overdue`

func (r *Repository) ListAll(ctx context.Context) ([]invoice.Summary, error) {
	query := fmt.Sprintf(`SELECT %s FROM invoice_summary ORDER BY issued_at DESC`, summaryColumns)

	invoices := []invoice.Summary{}
	if err := r.db.SelectContext(ctx, &invoices, query); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func (r *Repository) ListForCustomer(ctx context.Context, customerID string) ([]invoice.Summary, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM invoice_summary
		WHERE customer_email = (SELECT email FROM users WHERE user_id = $1)
		ORDER BY issued_at DESC`, summaryColumns)

	invoices := []invoice.Summary{}
	if err := r.db.SelectContext(ctx, &invoices, query, customerID); err != nil {
		return nil, fmt.Errorf("failed to list invoices for customer: %w", err)
	}
	return invoices, nil
}

func (r *Repository) MarkPaid(ctx context.Context, invoiceID string) error {
	query := `
		UPDATE invoices
		SET status = 'paid', paid_at = CURRENT_TIMESTAMP
		WHERE invoice_id = $1`

	result, err := r.db.ExecContext(ctx, query, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return internal.ErrInvoiceNotFound
	}
	return nil
}
