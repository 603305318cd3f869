package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dkralj/workshop-management/internal/core/events"
)

// EventHandler turns domain events into customer-facing notifications.
// Delivery is currently a structured log line; the shop front desk follows
// up by phone.
type EventHandler struct {
	logger *slog.Logger
}

func NewEventHandler(logger *slog.Logger) *EventHandler {
	return &EventHandler{logger: logger}
}

func (h *EventHandler) HandleWorkOrderStatusChanged(ctx context.Context, event events.Event) error {
	statusEvent, ok := event.(*events.WorkOrderStatusChangedEvent)
	if !ok {
		return fmt.Errorf("expected WorkOrderStatusChangedEvent, got %T", event)
	}

	h.logger.Info("notify customer: work order status changed",
		"work_order_id", statusEvent.WorkOrderID,
		"status", statusEvent.Status,
		"event_id", statusEvent.EventID())
	return nil
}

func (h *EventHandler) HandleMechanicAssigned(ctx context.Context, event events.Event) error {
	assignEvent, ok := event.(*events.MechanicAssignedEvent)
	if !ok {
		return fmt.Errorf("expected MechanicAssignedEvent, got %T", event)
	}

	h.logger.Info("notify mechanic: work order assignment changed",
		"work_order_id", assignEvent.WorkOrderID,
		"event_id", assignEvent.EventID())
	return nil
}

func (h *EventHandler) HandleInvoicePaid(ctx context.Context, event events.Event) error {
	paidEvent, ok := event.(*events.InvoicePaidEvent)
	if !ok {
		return fmt.Errorf("expected InvoicePaidEvent, got %T", event)
	}

	h.logger.Info("notify accounting: invoice paid",
		"invoice_id", paidEvent.InvoiceID,
		"event_id", paidEvent.EventID())
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeWorkOrderStatusChanged, h.HandleWorkOrderStatusChanged)
	eventBus.Subscribe(events.EventTypeMechanicAssigned, h.HandleMechanicAssigned)
	eventBus.Subscribe(events.EventTypeInvoicePaid, h.HandleInvoicePaid)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{
			events.EventTypeWorkOrderStatusChanged,
			events.EventTypeMechanicAssigned,
			events.EventTypeInvoicePaid,
		})
}
