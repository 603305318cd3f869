package user_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dkralj/workshop-management/internal"
	"github.com/dkralj/workshop-management/internal/auth"
	"github.com/dkralj/workshop-management/internal/user"
)

// Mock repository for testing
type mockUserRepository struct {
	summaries   []user.SummaryRow
	permissions map[string][]user.Permission

	created       []user.CreateUserDTO
	createdHash   string
	createdBy     string
	updated       map[string]user.UpdateUserDTO
	updatedStatus map[string]bool
	createError   error
	updateError   error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		permissions:   make(map[string][]user.Permission),
		updated:       make(map[string]user.UpdateUserDTO),
		updatedStatus: make(map[string]bool),
	}
}

func (m *mockUserRepository) ListSummaries(ctx context.Context) ([]user.SummaryRow, error) {
	return m.summaries, nil
}

func (m *mockUserRepository) Create(ctx context.Context, dto user.CreateUserDTO, passwordHash, createdBy string) (string, error) {
	if m.createError != nil {
		return "", m.createError
	}
	m.created = append(m.created, dto)
	m.createdHash = passwordHash
	m.createdBy = createdBy
	return "new-user-id", nil
}

func (m *mockUserRepository) Update(ctx context.Context, userID string, dto user.UpdateUserDTO, allowStatus bool) error {
	if m.updateError != nil {
		return m.updateError
	}
	m.updated[userID] = dto
	m.updatedStatus[userID] = allowStatus
	return nil
}

func (m *mockUserRepository) GetPermissions(ctx context.Context, userID string) ([]user.Permission, error) {
	return m.permissions[userID], nil
}

func (m *mockUserRepository) ListRoles(ctx context.Context) ([]user.Role, error) {
	return []user.Role{{RoleID: 1, RoleName: "owner", Priority: 1}}, nil
}

func (m *mockUserRepository) ListMechanics(ctx context.Context) ([]user.Mechanic, error) {
	return nil, nil
}

func (m *mockUserRepository) ListCustomers(ctx context.Context) ([]user.Customer, error) {
	return nil, nil
}

type mockHasher struct {
	hashError error
}

func (m *mockHasher) HashPassword(password string) (string, error) {
	if m.hashError != nil {
		return "", m.hashError
	}
	return "hashed:" + password, nil
}

var _ = Describe("UserService", func() {
	var (
		service *user.Service
		repo    *mockUserRepository
		hasher  *mockHasher
	)

	ownerProfile := &auth.UserProfile{ID: "owner-1", Roles: []string{"owner"}}
	mechanicProfile := &auth.UserProfile{ID: "mech-1", Roles: []string{"mechanic"}}

	BeforeEach(func() {
		repo = newMockUserRepository()
		hasher = &mockHasher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(repo, hasher, logger)
	})

	Describe("List", func() {
		BeforeEach(func() {
			repo.summaries = []user.SummaryRow{
				{UserID: "u1", Username: "marko", Roles: "{owner}", RoleCount: 1},
				{UserID: "u2", Username: "luka", Roles: "{NULL}", RoleCount: 0},
			}
		})

		It("returns summaries with parsed roles for an owner", func() {
			summaries, err := service.List(context.Background(), ownerProfile)
			Expect(err).NotTo(HaveOccurred())
			Expect(summaries).To(HaveLen(2))
			Expect(summaries[0].Roles).To(Equal([]string{"owner"}))
			Expect(summaries[1].Roles).To(BeEmpty())
		})

		It("refuses non-owners", func() {
			_, err := service.List(context.Background(), mechanicProfile)
			Expect(err).To(Equal(internal.ErrForbidden))
		})
	})

	Describe("Create", func() {
		validDTO := user.CreateUserDTO{
			Username: "ivana",
			Email:    "ivana@example.com",
			Password: "secret123",
			RoleName: "receptionist",
		}

		It("hashes the password and records who created the user", func() {
			userID, err := service.Create(context.Background(), ownerProfile, validDTO)
			Expect(err).NotTo(HaveOccurred())
			Expect(userID).To(Equal("new-user-id"))
			Expect(repo.createdHash).To(Equal("hashed:secret123"))
			Expect(repo.createdBy).To(Equal("owner-1"))
		})

		It("refuses non-owners before touching the repository", func() {
			_, err := service.Create(context.Background(), mechanicProfile, validDTO)
			Expect(err).To(Equal(internal.ErrForbidden))
			Expect(repo.created).To(BeEmpty())
		})

		It("rejects a payload without a password", func() {
			dto := validDTO
			dto.Password = ""
			_, err := service.Create(context.Background(), ownerProfile, dto)
			var validationErr user.ValidationError
			Expect(errors.As(err, &validationErr)).To(BeTrue())
		})

		It("rejects an unknown status", func() {
			dto := validDTO
			dto.Status = "banned"
			_, err := service.Create(context.Background(), ownerProfile, dto)
			var validationErr user.ValidationError
			Expect(errors.As(err, &validationErr)).To(BeTrue())
		})

		It("does not create the user when hashing fails", func() {
			hasher.hashError = errors.New("bcrypt unavailable")
			_, err := service.Create(context.Background(), ownerProfile, validDTO)
			Expect(err).To(HaveOccurred())
			Expect(repo.created).To(BeEmpty())
		})
	})

	Describe("Update", func() {
		newEmail := "new@example.com"
		suspended := "suspended"

		It("lets an owner update anyone, status included", func() {
			dto := user.UpdateUserDTO{Email: &newEmail, Status: &suspended}
			Expect(service.Update(context.Background(), ownerProfile, "u2", dto)).To(Succeed())
			Expect(repo.updated).To(HaveKey("u2"))
			Expect(repo.updatedStatus["u2"]).To(BeTrue())
		})

		It("lets a user update their own row without status rights", func() {
			dto := user.UpdateUserDTO{Email: &newEmail}
			Expect(service.Update(context.Background(), mechanicProfile, "mech-1", dto)).To(Succeed())
			Expect(repo.updatedStatus["mech-1"]).To(BeFalse())
		})

		It("refuses updating someone else for a non-owner", func() {
			dto := user.UpdateUserDTO{Email: &newEmail}
			err := service.Update(context.Background(), mechanicProfile, "u2", dto)
			Expect(err).To(Equal(internal.ErrForbidden))
			Expect(repo.updated).To(BeEmpty())
		})

		It("rejects an empty update", func() {
			err := service.Update(context.Background(), ownerProfile, "u2", user.UpdateUserDTO{})
			var validationErr user.ValidationError
			Expect(errors.As(err, &validationErr)).To(BeTrue())
		})
	})

	Describe("Permissions", func() {
		BeforeEach(func() {
			repo.permissions["mech-1"] = []user.Permission{
				{PermissionName: "work_orders.update", ResourceType: "work_orders", Action: "update"},
			}
		})

		It("returns a user's own permissions", func() {
			perms, err := service.Permissions(context.Background(), mechanicProfile, "mech-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(perms).To(HaveLen(1))
		})

		It("lets an owner inspect anyone", func() {
			_, err := service.Permissions(context.Background(), ownerProfile, "mech-1")
			Expect(err).NotTo(HaveOccurred())
		})

		It("refuses reading someone else's permissions", func() {
			_, err := service.Permissions(context.Background(), mechanicProfile, "owner-1")
			Expect(err).To(Equal(internal.ErrForbidden))
		})
	})
})
