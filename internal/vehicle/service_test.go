package vehicle_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dkralj/workshop-management/internal"
	"github.com/dkralj/workshop-management/internal/auth"
	"github.com/dkralj/workshop-management/internal/vehicle"
)

// Mock repository for testing
type mockVehicleRepository struct {
	all     []vehicle.Vehicle
	byOwner map[string][]vehicle.Vehicle
	created []vehicle.CreateVehicleDTO
}

func newMockVehicleRepository() *mockVehicleRepository {
	return &mockVehicleRepository{
		byOwner: make(map[string][]vehicle.Vehicle),
	}
}

func (m *mockVehicleRepository) ListAll(ctx context.Context) ([]vehicle.Vehicle, error) {
	return m.all, nil
}

func (m *mockVehicleRepository) ListForOwner(ctx context.Context, ownerID string) ([]vehicle.Vehicle, error) {
	return m.byOwner[ownerID], nil
}

func (m *mockVehicleRepository) Create(ctx context.Context, dto vehicle.CreateVehicleDTO) (string, error) {
	m.created = append(m.created, dto)
	return "new-vehicle-id", nil
}

var _ = Describe("VehicleService", func() {
	var (
		service *vehicle.Service
		repo    *mockVehicleRepository
	)

	ownerProfile := &auth.UserProfile{ID: "owner-1", Roles: []string{"owner"}}
	receptionistProfile := &auth.UserProfile{ID: "recep-1", Roles: []string{"receptionist"}}
	mechanicProfile := &auth.UserProfile{ID: "mech-1", Roles: []string{"mechanic"}}
	accountantProfile := &auth.UserProfile{ID: "acct-1", Roles: []string{"accountant"}}
	customerProfile := &auth.UserProfile{ID: "cust-1", Roles: []string{"customer"}}

	BeforeEach(func() {
		repo = newMockVehicleRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = vehicle.NewService(repo, logger)

		repo.all = []vehicle.Vehicle{
			{VehicleID: "v1", LicensePlate: "ZG-1234-AB"},
			{VehicleID: "v2", LicensePlate: "ST-5678-CD"},
		}
		repo.byOwner["cust-1"] = []vehicle.Vehicle{
			{VehicleID: "v1", LicensePlate: "ZG-1234-AB"},
		}
	})

	Describe("List", func() {
		It("returns the whole fleet for workshop staff", func() {
			for _, profile := range []*auth.UserProfile{ownerProfile, receptionistProfile, mechanicProfile} {
				vehicles, err := service.List(context.Background(), profile)
				Expect(err).NotTo(HaveOccurred())
				Expect(vehicles).To(HaveLen(2))
			}
		})

		It("returns only the caller's vehicles for a customer", func() {
			vehicles, err := service.List(context.Background(), customerProfile)
			Expect(err).NotTo(HaveOccurred())
			Expect(vehicles).To(HaveLen(1))
			Expect(vehicles[0].VehicleID).To(Equal("v1"))
		})

		It("returns nothing for a role without vehicles of its own", func() {
			vehicles, err := service.List(context.Background(), accountantProfile)
			Expect(err).NotTo(HaveOccurred())
			Expect(vehicles).To(BeEmpty())
		})
	})

	Describe("Create", func() {
		year := 2019
		validDTO := vehicle.CreateVehicleDTO{
			OwnerID:      "cust-1",
			LicensePlate: "RI-9012-EF",
			Brand:        "Skoda",
			Model:        "Octavia",
			Year:         &year,
		}

		It("lets the front desk register a vehicle for any customer", func() {
			vehicleID, err := service.Create(context.Background(), receptionistProfile, validDTO)
			Expect(err).NotTo(HaveOccurred())
			Expect(vehicleID).To(Equal("new-vehicle-id"))
			Expect(repo.created[0].OwnerID).To(Equal("cust-1"))
		})

		It("forces the owner id to the caller for customers", func() {
			dto := validDTO
			dto.OwnerID = "someone-else"
			_, err := service.Create(context.Background(), customerProfile, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.created[0].OwnerID).To(Equal("cust-1"))
		})

		It("refuses roles outside the front desk and customers", func() {
			_, err := service.Create(context.Background(), mechanicProfile, validDTO)
			Expect(err).To(Equal(internal.ErrForbidden))
			Expect(repo.created).To(BeEmpty())
		})

		It("rejects a payload without a license plate", func() {
			dto := validDTO
			dto.LicensePlate = ""
			_, err := service.Create(context.Background(), ownerProfile, dto)
			var validationErr vehicle.ValidationError
			Expect(errors.As(err, &validationErr)).To(BeTrue())
		})

		It("rejects an implausible model year", func() {
			badYear := 1850
			dto := validDTO
			dto.Year = &badYear
			_, err := service.Create(context.Background(), ownerProfile, dto)
			var validationErr vehicle.ValidationError
			Expect(errors.As(err, &validationErr)).To(BeTrue())
		})
	})
})
