package workorder_test

import (
	"context"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dkralj/workshop-management/internal"
	"github.com/dkralj/workshop-management/internal/auth"
	"github.com/dkralj/workshop-management/internal/core/events"
	"github.com/dkralj/workshop-management/internal/workorder"
)

// Mock repository for testing
type mockWorkOrderRepository struct {
	all            []workorder.Detail
	byID           map[string]*workorder.Detail
	logs           map[string][]workorder.WorkLog
	addedLogs      []addedLog
	statusUpdates  map[string]string
	assignments    map[string]*string
	createdOrders  []workorder.CreateDTO
	nextID         string
	createError    error
	getError       error
}

type addedLog struct {
	orderID    string
	mechanicID string
	entry      string
}

func newMockWorkOrderRepository() *mockWorkOrderRepository {
	return &mockWorkOrderRepository{
		byID:          make(map[string]*workorder.Detail),
		logs:          make(map[string][]workorder.WorkLog),
		statusUpdates: make(map[string]string),
		assignments:   make(map[string]*string),
		nextID:        "wo-new",
	}
}

func (m *mockWorkOrderRepository) ListAll(ctx context.Context) ([]workorder.Detail, error) {
	return m.all, nil
}

func (m *mockWorkOrderRepository) ListForMechanic(ctx context.Context, mechanicID string) ([]workorder.Detail, error) {
	orders := []workorder.Detail{}
	for _, order := range m.all {
		if order.MechanicID != nil && *order.MechanicID == mechanicID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (m *mockWorkOrderRepository) ListForCustomer(ctx context.Context, customerID string) ([]workorder.Detail, error) {
	orders := []workorder.Detail{}
	for _, order := range m.all {
		if order.CustomerID == customerID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (m *mockWorkOrderRepository) GetByID(ctx context.Context, orderID string) (*workorder.Detail, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	order, exists := m.byID[orderID]
	if !exists {
		return nil, internal.ErrWorkOrderNotFound
	}
	return order, nil
}

func (m *mockWorkOrderRepository) GetWorkLogs(ctx context.Context, orderID string) ([]workorder.WorkLog, error) {
	return m.logs[orderID], nil
}

func (m *mockWorkOrderRepository) GetAssignedMechanic(ctx context.Context, orderID string) (*string, error) {
	order, exists := m.byID[orderID]
	if !exists {
		return nil, internal.ErrWorkOrderNotFound
	}
	return order.MechanicID, nil
}

func (m *mockWorkOrderRepository) Create(ctx context.Context, dto workorder.CreateDTO, createdBy string) (string, error) {
	if m.createError != nil {
		return "", m.createError
	}
	m.createdOrders = append(m.createdOrders, dto)
	return m.nextID, nil
}

func (m *mockWorkOrderRepository) UpdateStatus(ctx context.Context, orderID, status string) error {
	m.statusUpdates[orderID] = status
	return nil
}

func (m *mockWorkOrderRepository) AssignMechanic(ctx context.Context, orderID string, mechanicID *string) error {
	m.assignments[orderID] = mechanicID
	return nil
}

func (m *mockWorkOrderRepository) AddLog(ctx context.Context, orderID, mechanicID string, dto workorder.AddLogDTO) error {
	m.addedLogs = append(m.addedLogs, addedLog{orderID, mechanicID, dto.LogEntry})
	return nil
}

var _ = Describe("WorkOrderService", func() {
	var (
		service *workorder.Service
		repo    *mockWorkOrderRepository
	)

	mechanicID := "mech-1"
	otherMechanicID := "mech-2"

	ownerProfile := &auth.UserProfile{ID: "owner-1", Roles: []string{"owner"}}
	receptionistProfile := &auth.UserProfile{ID: "recep-1", Roles: []string{"receptionist"}}
	mechanicProfile := &auth.UserProfile{ID: mechanicID, Roles: []string{"mechanic"}}
	otherMechanicProfile := &auth.UserProfile{ID: otherMechanicID, Roles: []string{"mechanic"}}
	headMechanicProfile := &auth.UserProfile{ID: "head-1", Roles: []string{"head_mechanic"}}
	customerProfile := &auth.UserProfile{ID: "cust-1", Roles: []string{"customer"}}
	accountantProfile := &auth.UserProfile{ID: "acct-1", Roles: []string{"accountant"}}

	BeforeEach(func() {
		repo = newMockWorkOrderRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = workorder.NewService(repo, events.NewEventBus(logger), logger)

		repo.all = []workorder.Detail{
			{WorkOrderID: "wo-1", CustomerID: "cust-1", MechanicID: &mechanicID, Status: "in_progress"},
			{WorkOrderID: "wo-2", CustomerID: "cust-2", MechanicID: &otherMechanicID, Status: "pending"},
			{WorkOrderID: "wo-3", CustomerID: "cust-1", Status: "pending"},
		}
		for i := range repo.all {
			repo.byID[repo.all[i].WorkOrderID] = &repo.all[i]
		}
	})

	Describe("List", func() {
		It("returns everything for owner, receptionist and head mechanic", func() {
			for _, profile := range []*auth.UserProfile{ownerProfile, receptionistProfile, headMechanicProfile} {
				orders, err := service.List(context.Background(), profile)
				Expect(err).NotTo(HaveOccurred())
				Expect(orders).To(HaveLen(3))
			}
		})

		It("returns only assigned orders for a mechanic", func() {
			orders, err := service.List(context.Background(), mechanicProfile)
			Expect(err).NotTo(HaveOccurred())
			Expect(orders).To(HaveLen(1))
			Expect(orders[0].WorkOrderID).To(Equal("wo-1"))
		})

		It("returns only the caller's vehicles' orders for a customer", func() {
			orders, err := service.List(context.Background(), customerProfile)
			Expect(err).NotTo(HaveOccurred())
			Expect(orders).To(HaveLen(2))
		})

		It("returns an empty list for any other role", func() {
			orders, err := service.List(context.Background(), accountantProfile)
			Expect(err).NotTo(HaveOccurred())
			Expect(orders).To(BeEmpty())
		})
	})

	Describe("Get", func() {
		It("returns the order with its work logs for full-access staff", func() {
			repo.logs["wo-1"] = []workorder.WorkLog{{LogID: "log-1", LogEntry: "replaced brake pads"}}

			detail, err := service.Get(context.Background(), ownerProfile, "wo-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.WorkLogs).To(HaveLen(1))
		})

		It("lets a mechanic read only their assigned order", func() {
			_, assignedErr := service.Get(context.Background(), mechanicProfile, "wo-1")
			_, otherErr := service.Get(context.Background(), mechanicProfile, "wo-2")

			Expect(assignedErr).NotTo(HaveOccurred())
			Expect(otherErr).To(Equal(internal.ErrForbidden))
		})

		It("lets a customer read only orders on their own vehicles", func() {
			_, ownErr := service.Get(context.Background(), customerProfile, "wo-1")
			_, otherErr := service.Get(context.Background(), customerProfile, "wo-2")

			Expect(ownErr).NotTo(HaveOccurred())
			Expect(otherErr).To(Equal(internal.ErrForbidden))
		})

		It("propagates not-found for a missing order", func() {
			_, err := service.Get(context.Background(), ownerProfile, "wo-404")
			Expect(err).To(Equal(internal.ErrWorkOrderNotFound))
		})
	})

	Describe("Create", func() {
		It("defaults the status to pending", func() {
			_, err := service.Create(context.Background(), receptionistProfile, workorder.CreateDTO{
				VehicleID:   "veh-1",
				Description: "oil change",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(repo.createdOrders).To(HaveLen(1))
			Expect(repo.createdOrders[0].Status).To(Equal(workorder.StatusPending))
		})

		It("refuses mechanics and customers", func() {
			dto := workorder.CreateDTO{VehicleID: "veh-1", Description: "oil change"}

			_, mechErr := service.Create(context.Background(), mechanicProfile, dto)
			_, custErr := service.Create(context.Background(), customerProfile, dto)

			Expect(mechErr).To(Equal(internal.ErrForbidden))
			Expect(custErr).To(Equal(internal.ErrForbidden))
		})

		It("rejects an unknown status", func() {
			_, err := service.Create(context.Background(), ownerProfile, workorder.CreateDTO{
				VehicleID:   "veh-1",
				Description: "oil change",
				Status:      "finished",
			})

			Expect(err).To(BeAssignableToTypeOf(workorder.ValidationError{}))
		})
	})

	Describe("UpdateStatus", func() {
		It("lets a mechanic move only their assigned order", func() {
			assignedErr := service.UpdateStatus(context.Background(), mechanicProfile, "wo-1", workorder.StatusDTO{Status: "completed"})
			otherErr := service.UpdateStatus(context.Background(), mechanicProfile, "wo-2", workorder.StatusDTO{Status: "completed"})

			Expect(assignedErr).NotTo(HaveOccurred())
			Expect(otherErr).To(Equal(internal.ErrForbidden))
			Expect(repo.statusUpdates).To(HaveKeyWithValue("wo-1", "completed"))
		})

		It("lets the head mechanic move any order", func() {
			err := service.UpdateStatus(context.Background(), headMechanicProfile, "wo-2", workorder.StatusDTO{Status: "in_progress"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("lets a receptionist move any order without an assignment check", func() {
			err := service.UpdateStatus(context.Background(), receptionistProfile, "wo-2", workorder.StatusDTO{Status: "cancelled"})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.statusUpdates).To(HaveKeyWithValue("wo-2", "cancelled"))
		})

		It("refuses customers", func() {
			err := service.UpdateStatus(context.Background(), customerProfile, "wo-1", workorder.StatusDTO{Status: "completed"})
			Expect(err).To(Equal(internal.ErrForbidden))
		})
	})

	Describe("AssignMechanic", func() {
		It("lets front desk and supervisors assign", func() {
			err := service.AssignMechanic(context.Background(), receptionistProfile, "wo-3", workorder.AssignDTO{MechanicID: &mechanicID})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.assignments["wo-3"]).To(Equal(&mechanicID))
		})

		It("supports unassigning with a nil mechanic", func() {
			err := service.AssignMechanic(context.Background(), ownerProfile, "wo-1", workorder.AssignDTO{})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.assignments["wo-1"]).To(BeNil())
		})

		It("refuses mechanics", func() {
			err := service.AssignMechanic(context.Background(), mechanicProfile, "wo-3", workorder.AssignDTO{MechanicID: &mechanicID})
			Expect(err).To(Equal(internal.ErrForbidden))
		})
	})

	Describe("AddLog", func() {
		It("lets a mechanic log only on their assigned order", func() {
			assignedErr := service.AddLog(context.Background(), mechanicProfile, "wo-1", workorder.AddLogDTO{LogEntry: "drained oil"})
			otherErr := service.AddLog(context.Background(), otherMechanicProfile, "wo-1", workorder.AddLogDTO{LogEntry: "drained oil"})

			Expect(assignedErr).NotTo(HaveOccurred())
			Expect(otherErr).To(Equal(internal.ErrForbidden))
			Expect(repo.addedLogs).To(HaveLen(1))
			Expect(repo.addedLogs[0].mechanicID).To(Equal(mechanicID))
		})

		It("lets the head mechanic log on any order", func() {
			err := service.AddLog(context.Background(), headMechanicProfile, "wo-2", workorder.AddLogDTO{LogEntry: "inspected"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("refuses customers", func() {
			err := service.AddLog(context.Background(), customerProfile, "wo-1", workorder.AddLogDTO{LogEntry: "tried"})
			Expect(err).To(Equal(internal.ErrForbidden))
		})

		It("rejects an empty log entry", func() {
			err := service.AddLog(context.Background(), headMechanicProfile, "wo-1", workorder.AddLogDTO{})
			Expect(err).To(BeAssignableToTypeOf(workorder.ValidationError{}))
		})
	})
})
