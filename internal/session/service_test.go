package session_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dkralj/workshop-management/internal"
	"github.com/dkralj/workshop-management/internal/auth"
	"github.com/dkralj/workshop-management/internal/session"
)

// Mock repository for testing
type mockSessionRepository struct {
	all           []session.Session
	byUser        map[string][]session.OwnSession
	owners        map[string]string
	deactivated   []string
	listError     error
	getOwnerError error
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{
		byUser: make(map[string][]session.OwnSession),
		owners: make(map[string]string),
	}
}

func (m *mockSessionRepository) Record(ctx context.Context, userID, ipAddress, userAgent string, expiresAt time.Time) error {
	return nil
}

func (m *mockSessionRepository) ListAll(ctx context.Context) ([]session.Session, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.all, nil
}

func (m *mockSessionRepository) ListForUser(ctx context.Context, userID string) ([]session.OwnSession, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.byUser[userID], nil
}

func (m *mockSessionRepository) GetOwner(ctx context.Context, sessionID string) (string, error) {
	if m.getOwnerError != nil {
		return "", m.getOwnerError
	}
	owner, exists := m.owners[sessionID]
	if !exists {
		return "", internal.ErrSessionNotFound
	}
	return owner, nil
}

func (m *mockSessionRepository) Deactivate(ctx context.Context, sessionID string) error {
	m.deactivated = append(m.deactivated, sessionID)
	return nil
}

var _ = Describe("SessionService", func() {
	var (
		service *session.Service
		repo    *mockSessionRepository
	)

	ownerProfile := &auth.UserProfile{ID: "owner-1", Roles: []string{"owner"}}
	customerProfile := &auth.UserProfile{ID: "cust-1", Roles: []string{"customer"}}

	BeforeEach(func() {
		repo = newMockSessionRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = session.NewService(repo, logger)
	})

	Describe("List", func() {
		BeforeEach(func() {
			repo.all = []session.Session{
				{SessionID: "s-1", UserID: "owner-1", Username: "marko"},
				{SessionID: "s-2", UserID: "cust-1", Username: "luka"},
			}
			repo.byUser["cust-1"] = []session.OwnSession{
				{SessionID: "s-2", MinutesUntilExpiry: 42},
			}
		})

		It("returns the full ledger for an owner", func() {
			result, err := service.List(context.Background(), ownerProfile)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(2))
		})

		It("returns only the caller's sessions for everyone else", func() {
			result, err := service.List(context.Background(), customerProfile)
			Expect(err).NotTo(HaveOccurred())

			own, ok := result.([]session.OwnSession)
			Expect(ok).To(BeTrue())
			Expect(own).To(HaveLen(1))
			Expect(own[0].SessionID).To(Equal("s-2"))
		})
	})

	Describe("Revoke", func() {
		BeforeEach(func() {
			repo.owners["s-1"] = "owner-1"
			repo.owners["s-2"] = "cust-1"
		})

		It("lets an owner revoke any session", func() {
			Expect(service.Revoke(context.Background(), "s-2", ownerProfile)).To(Succeed())
			Expect(repo.deactivated).To(ConsistOf("s-2"))
		})

		It("lets a caller revoke their own session", func() {
			Expect(service.Revoke(context.Background(), "s-2", customerProfile)).To(Succeed())
			Expect(repo.deactivated).To(ConsistOf("s-2"))
		})

		It("refuses a caller revoking someone else's session", func() {
			err := service.Revoke(context.Background(), "s-1", customerProfile)
			Expect(err).To(Equal(internal.ErrForbidden))
			Expect(repo.deactivated).To(BeEmpty())
		})

		It("reports an unknown session as not found, not as a denial", func() {
			err := service.Revoke(context.Background(), "s-404", customerProfile)
			Expect(err).To(Equal(internal.ErrSessionNotFound))
			Expect(repo.deactivated).To(BeEmpty())
		})

		It("propagates a failed owner lookup instead of denying", func() {
			repo.getOwnerError = errors.New("connection reset")
			err := service.Revoke(context.Background(), "s-2", customerProfile)
			Expect(err).To(MatchError("connection reset"))
			Expect(repo.deactivated).To(BeEmpty())
		})

		It("leaves a token issued against the session valid after revocation", func() {
			tokens := auth.NewTokenIssuer(internal.SecurityConfig{
				JWTSecret:     "test-secret-with-at-least-32-characters",
				TokenDuration: time.Hour,
			})
			token, _, err := tokens.Issue("cust-1")
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Revoke(context.Background(), "s-2", customerProfile)).To(Succeed())
			Expect(repo.deactivated).To(ConsistOf("s-2"))

			claims, err := tokens.Validate(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Subject).To(Equal("cust-1"))
		})
	})
})
