package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeWorkOrderCreated       = "work_order.created"
	EventTypeWorkOrderStatusChanged = "work_order.status_changed"
	EventTypeMechanicAssigned       = "work_order.mechanic_assigned"
	EventTypeInvoicePaid            = "invoice.paid"
)

type WorkOrderCreatedEvent struct {
	BaseEvent
	WorkOrderID string `json:"work_order_id"`
	VehicleID   string `json:"vehicle_id"`
	CreatedBy   string `json:"created_by"`
}

func NewWorkOrderCreatedEvent(workOrderID, vehicleID, createdBy string) *WorkOrderCreatedEvent {
	return &WorkOrderCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeWorkOrderCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"work_order_id": workOrderID,
				"vehicle_id":    vehicleID,
				"created_by":    createdBy,
			},
		},
		WorkOrderID: workOrderID,
		VehicleID:   vehicleID,
		CreatedBy:   createdBy,
	}
}

type WorkOrderStatusChangedEvent struct {
	BaseEvent
	WorkOrderID string `json:"work_order_id"`
	Status      string `json:"status"`
	ChangedBy   string `json:"changed_by"`
}

func NewWorkOrderStatusChangedEvent(workOrderID, status, changedBy string) *WorkOrderStatusChangedEvent {
	return &WorkOrderStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeWorkOrderStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"work_order_id": workOrderID,
				"status":        status,
				"changed_by":    changedBy,
			},
		},
		WorkOrderID: workOrderID,
		Status:      status,
		ChangedBy:   changedBy,
	}
}

type MechanicAssignedEvent struct {
	BaseEvent
	WorkOrderID string  `json:"work_order_id"`
	MechanicID  *string `json:"mechanic_id"`
	AssignedBy  string  `json:"assigned_by"`
}

func NewMechanicAssignedEvent(workOrderID string, mechanicID *string, assignedBy string) *MechanicAssignedEvent {
	return &MechanicAssignedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeMechanicAssigned,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"work_order_id": workOrderID,
				"mechanic_id":   mechanicID,
				"assigned_by":   assignedBy,
			},
		},
		WorkOrderID: workOrderID,
		MechanicID:  mechanicID,
		AssignedBy:  assignedBy,
	}
}

type InvoicePaidEvent struct {
	BaseEvent
	InvoiceID string `json:"invoice_id"`
	MarkedBy  string `json:"marked_by"`
}

func NewInvoicePaidEvent(invoiceID, markedBy string) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeInvoicePaid,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"invoice_id": invoiceID,
				"marked_by":  markedBy,
			},
		},
		InvoiceID: invoiceID,
		MarkedBy:  markedBy,
	}
}
