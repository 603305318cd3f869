package auth_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/dkralj/workshop-management/internal"
	"github.com/dkralj/workshop-management/internal/auth"
)

// Mock repository for testing
type mockAuthRepository struct {
	credentials map[string]*auth.Credentials
	profiles    map[string]*auth.Profile
	lookupError error
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		credentials: make(map[string]*auth.Credentials),
		profiles:    make(map[string]*auth.Profile),
	}
}

func (m *mockAuthRepository) GetCredentialsByUsername(ctx context.Context, username string) (*auth.Credentials, error) {
	if m.lookupError != nil {
		return nil, m.lookupError
	}
	creds, exists := m.credentials[username]
	if !exists {
		return nil, internal.ErrUserNotFound
	}
	return creds, nil
}

func (m *mockAuthRepository) GetProfileByID(ctx context.Context, userID string) (*auth.Profile, error) {
	if m.lookupError != nil {
		return nil, m.lookupError
	}
	profile, exists := m.profiles[userID]
	if !exists {
		return nil, internal.ErrUserNotFound
	}
	return profile, nil
}

// Mock session recorder for testing
type mockSessionRecorder struct {
	recorded    []recordedSession
	recordError error
}

type recordedSession struct {
	userID    string
	ipAddress string
	userAgent string
	expiresAt time.Time
}

func (m *mockSessionRecorder) Record(ctx context.Context, userID, ipAddress, userAgent string, expiresAt time.Time) error {
	if m.recordError != nil {
		return m.recordError
	}
	m.recorded = append(m.recorded, recordedSession{userID, ipAddress, userAgent, expiresAt})
	return nil
}

var _ = Describe("AuthService", func() {
	var (
		service  *auth.Service
		repo     *mockAuthRepository
		sessions *mockSessionRecorder
		tokens   *auth.TokenIssuer
		logger   *slog.Logger
	)

	passwordHash := func(password string) string {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		return string(hash)
	}

	BeforeEach(func() {
		repo = newMockAuthRepository()
		sessions = &mockSessionRecorder{}
		tokens = auth.NewTokenIssuer(internal.SecurityConfig{
			JWTSecret:     "test-secret-with-at-least-32-characters",
			TokenDuration: time.Hour,
		})
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = auth.NewService(repo, sessions, tokens, bcrypt.MinCost, logger)

		repo.credentials["marko"] = &auth.Credentials{
			UserID:       "user-1",
			Username:     "marko",
			Email:        "marko@example.com",
			Status:       "active",
			PasswordHash: passwordHash("correct-password"),
			Roles:        "{owner}",
		}
	})

	Describe("Authenticate", func() {
		It("returns a token and user summary on valid credentials", func() {
			result, err := service.Authenticate(context.Background(), auth.LoginDTO{
				Username: "marko",
				Password: "correct-password",
			}, "10.0.0.1", "test-agent")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Token).NotTo(BeEmpty())
			Expect(result.User.UserID).To(Equal("user-1"))
			Expect(result.User.Roles).To(Equal([]string{"owner"}))
		})

		It("records the session before handing out the token", func() {
			_, err := service.Authenticate(context.Background(), auth.LoginDTO{
				Username: "marko",
				Password: "correct-password",
			}, "10.0.0.1", "test-agent")

			Expect(err).NotTo(HaveOccurred())
			Expect(sessions.recorded).To(HaveLen(1))
			Expect(sessions.recorded[0].userID).To(Equal("user-1"))
			Expect(sessions.recorded[0].ipAddress).To(Equal("10.0.0.1"))
			Expect(sessions.recorded[0].expiresAt).To(BeTemporally("~", time.Now().Add(time.Hour), time.Minute))
		})

		It("aborts the login when the session insert fails", func() {
			sessions.recordError = internal.NewInternalError("db down", nil)

			result, err := service.Authenticate(context.Background(), auth.LoginDTO{
				Username: "marko",
				Password: "correct-password",
			}, "10.0.0.1", "test-agent")

			Expect(err).To(HaveOccurred())
			Expect(result).To(BeNil())
		})

		It("rejects an unknown username with the credential error", func() {
			_, err := service.Authenticate(context.Background(), auth.LoginDTO{
				Username: "nobody",
				Password: "whatever",
			}, "10.0.0.1", "test-agent")

			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("rejects a wrong password with the same error as an unknown user", func() {
			_, wrongPassErr := service.Authenticate(context.Background(), auth.LoginDTO{
				Username: "marko",
				Password: "wrong-password",
			}, "10.0.0.1", "test-agent")
			_, unknownUserErr := service.Authenticate(context.Background(), auth.LoginDTO{
				Username: "nobody",
				Password: "wrong-password",
			}, "10.0.0.1", "test-agent")

			Expect(wrongPassErr).To(Equal(internal.ErrInvalidCredentials))
			Expect(unknownUserErr).To(Equal(wrongPassErr))
		})

		It("reports an inactive account only after the password verified", func() {
			repo.credentials["dormant"] = &auth.Credentials{
				UserID:       "user-2",
				Username:     "dormant",
				Status:       "inactive",
				PasswordHash: passwordHash("correct-password"),
				Roles:        "{customer}",
			}

			_, rightPassErr := service.Authenticate(context.Background(), auth.LoginDTO{
				Username: "dormant",
				Password: "correct-password",
			}, "10.0.0.1", "test-agent")
			_, wrongPassErr := service.Authenticate(context.Background(), auth.LoginDTO{
				Username: "dormant",
				Password: "wrong-password",
			}, "10.0.0.1", "test-agent")

			Expect(rightPassErr).To(Equal(internal.ErrAccountInactive))
			Expect(wrongPassErr).To(Equal(internal.ErrInvalidCredentials))
		})

		It("does not record a session for a failed login", func() {
			_, err := service.Authenticate(context.Background(), auth.LoginDTO{
				Username: "marko",
				Password: "wrong-password",
			}, "10.0.0.1", "test-agent")

			Expect(err).To(HaveOccurred())
			Expect(sessions.recorded).To(BeEmpty())
		})

		It("rejects missing fields with a validation error", func() {
			_, err := service.Authenticate(context.Background(), auth.LoginDTO{
				Username: "marko",
			}, "10.0.0.1", "test-agent")

			Expect(err).To(BeAssignableToTypeOf(auth.ValidationError{}))
		})
	})

	Describe("CurrentUser", func() {
		It("resolves the profile with parsed roles", func() {
			repo.profiles["user-1"] = &auth.Profile{
				UserID:   "user-1",
				Username: "marko",
				Email:    "marko@example.com",
				Status:   "active",
				Roles:    "{owner,mechanic}",
			}

			profile, err := service.CurrentUser(context.Background(), "user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(profile.Roles).To(ConsistOf("owner", "mechanic"))
		})

		It("resolves a roleless user to an empty role set", func() {
			repo.profiles["user-3"] = &auth.Profile{
				UserID: "user-3",
				Status: "active",
				Roles:  "{NULL}",
			}

			profile, err := service.CurrentUser(context.Background(), "user-3")
			Expect(err).NotTo(HaveOccurred())
			Expect(profile.Roles).To(BeEmpty())
		})
	})

	Describe("TokenIssuer", func() {
		It("round-trips a token back to its subject", func() {
			token, _, err := tokens.Issue("user-1")
			Expect(err).NotTo(HaveOccurred())

			claims, err := tokens.Validate(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Subject).To(Equal("user-1"))
		})

		It("rejects a token signed with a different secret", func() {
			other := auth.NewTokenIssuer(internal.SecurityConfig{
				JWTSecret:     "another-secret-also-32-characters-long",
				TokenDuration: time.Hour,
			})
			token, _, err := other.Issue("user-1")
			Expect(err).NotTo(HaveOccurred())

			_, err = tokens.Validate(token)
			Expect(err).To(Equal(internal.ErrTokenInvalid))
		})

		It("rejects an expired token with the same error as a malformed one", func() {
			expired := auth.NewTokenIssuer(internal.SecurityConfig{
				JWTSecret:     "test-secret-with-at-least-32-characters",
				TokenDuration: -time.Minute,
			})
			token, _, err := expired.Issue("user-1")
			Expect(err).NotTo(HaveOccurred())

			_, expiredErr := tokens.Validate(token)
			_, malformedErr := tokens.Validate("not-a-token")

			Expect(expiredErr).To(Equal(internal.ErrTokenInvalid))
			Expect(malformedErr).To(Equal(expiredErr))
		})
	})

	Describe("UserProfile role checks", func() {
		headMechanic := &auth.UserProfile{ID: "u1", Roles: []string{"head_mechanic"}}

		It("matches literal role names only", func() {
			Expect(headMechanic.HasAnyRole(auth.RoleOwner)).To(BeFalse())
			Expect(headMechanic.HasAnyRole(auth.RoleOwner, auth.RoleHeadMechanic)).To(BeTrue())
		})

		It("matches nothing for a roleless profile", func() {
			roleless := &auth.UserProfile{ID: "u2", Roles: []string{}}
			Expect(roleless.HasAnyRole(auth.RoleOwner, auth.RoleCustomer)).To(BeFalse())
		})
	})

	Describe("ParseRoleArray", func() {
		It("parses a plain role list", func() {
			Expect(auth.ParseRoleArray("{owner,mechanic}")).To(Equal([]string{"owner", "mechanic"}))
		})

		It("drops the NULL placeholder from a roleless aggregate", func() {
			Expect(auth.ParseRoleArray("{NULL}")).To(BeEmpty())
		})

		It("handles an empty array", func() {
			Expect(auth.ParseRoleArray("{}")).To(BeEmpty())
		})

		It("strips quoting from quoted elements", func() {
			Expect(auth.ParseRoleArray(`{"head_mechanic"}`)).To(Equal([]string{"head_mechanic"}))
		})
	})
})
