package audit_test

import (
	"context"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dkralj/workshop-management/internal/audit"
)

// Mock repository for testing
type mockAuditRepository struct {
	entries    []audit.Entry
	lastFilter audit.Filter
}

func (m *mockAuditRepository) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, error) {
	m.lastFilter = filter
	return m.entries, nil
}

var _ = Describe("AuditService", func() {
	var (
		service *audit.Service
		repo    *mockAuditRepository
	)

	BeforeEach(func() {
		repo = &mockAuditRepository{
			entries: []audit.Entry{
				{LogID: "log-1", TableName: "work_orders", ActionType: "UPDATE"},
			},
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = audit.NewService(repo, logger)
	})

	Describe("List", func() {
		It("defaults the limit when none is given", func() {
			_, err := service.List(context.Background(), audit.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastFilter.Limit).To(Equal(audit.DefaultLimit))
		})

		It("defaults the limit when a negative one is given", func() {
			_, err := service.List(context.Background(), audit.Filter{Limit: -5})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastFilter.Limit).To(Equal(audit.DefaultLimit))
		})

		It("passes an explicit limit and filters through unchanged", func() {
			filter := audit.Filter{TableName: "invoices", ActionType: "INSERT", Limit: 25}
			entries, err := service.List(context.Background(), filter)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(repo.lastFilter).To(Equal(filter))
		})
	})
})
