package invoice

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

func (s *Service) List(ctx context.Context, profile *auth.UserProfile) ([]Summary, error) {
	switch {
	case profile.HasAnyRole(auth.RoleOwner, auth.RoleAccountant, auth.RoleReceptionist):
		return s.repo.ListAll(ctx)
	case profile.HasRole(auth.RoleCustomer):
		return s.repo.ListForCustomer(ctx, profile.ID)
	}
	return []Summary{}, nil
}

func (s *Service) MarkPaid(ctx context.Context, profile *auth.UserProfile, invoiceID string) error {
	if !profile.HasAnyRole(auth.RoleOwner, auth.RoleAccountant) {
		return internal.ErrForbidden
	}

	if err := s.repo.MarkPaid(ctx, invoiceID); err != nil {
		return err
	}

	s.logger.Info("invoice marked paid",
		slog.String("invoice_id", invoiceID),
		slog.String("marked_by", profile.ID))

	// Payment confirmations run synchronously so they are observed before
	// the response goes out; a failed notification does not undo the payment.
	if err := s.eventBus.PublishSync(ctx, events.NewInvoicePaidEvent(invoiceID, profile.ID)); err != nil {
		s.logger.Error("paid notification failed", slog.String("invoice_id", invoiceID), slog.Any("error", err))
	}
	return nil
}
