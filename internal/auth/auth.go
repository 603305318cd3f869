package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Role names are static reference data; the database carries the same set.
const (
	RoleOwner        = "owner"
	RoleHeadMechanic = "head_mechanic"
	RoleMechanic     = "mechanic"
	RoleReceptionist = "receptionist"
	RoleAccountant   = "accountant"
	RoleCustomer     = "customer"
)

// rolePriority orders roles for display purposes only. Lower value wins.
// Access decisions never consult this table.
var rolePriority = map[string]int{
	RoleOwner:        1,
	RoleHeadMechanic: 2,
	RoleMechanic:     3,
	RoleReceptionist: 3,
	RoleAccountant:   3,
	RoleCustomer:     4,
}

// UserProfile is the resolved caller identity carried through a request.
// Roles may contain duplicates; order is not guaranteed.
type UserProfile struct {
	ID       string   `json:"user_id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Status   string   `json:"status"`
	Roles    []string `json:"roles"`
}

// HasAnyRole reports whether the profile holds at least one of the given
// roles. This is the single authorization primitive: there is no implicit
// hierarchy, so "owner" must be listed wherever full access is intended.
func (p *UserProfile) HasAnyRole(roles ...string) bool {
	for _, have := range p.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

func (p *UserProfile) HasRole(role string) bool {
	return p.HasAnyRole(role)
}

// PrimaryRole resolves the single highest-precedence role for display.
// Ties between equal-priority roles are broken by whichever comes first in
// the slice, which depends on unordered aggregation upstream.
func (p *UserProfile) PrimaryRole() (string, bool) {
	best := ""
	bestPrio := 0
	for _, r := range p.Roles {
		prio, ok := rolePriority[r]
		if !ok {
			prio = 99
		}
		if best == "" || prio < bestPrio {
			best = r
			bestPrio = prio
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// ParseRoleArray turns a Postgres array literal produced by array_agg over a
// LEFT JOIN (e.g. `{owner,mechanic}` or `{NULL}`) into a clean role list.
// The NULL placeholder a roleless user aggregates to is dropped, so absence
// of roles resolves to an empty set rather than a default role.
func ParseRoleArray(raw string) []string {
	trimmed := strings.TrimPrefix(strings.TrimSuffix(raw, "}"), "{")
	if trimmed == "" {
		return []string{}
	}
	parts := strings.Split(trimmed, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		if p == "" || p == "NULL" {
			continue
		}
		roles = append(roles, p)
	}
	return roles
}

// Claims is the bearer token payload: subject user id plus expiry. The token
// is stateless; nothing else is encoded or persisted.
type Claims struct {
	jwt.RegisteredClaims
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *UserSummary `json:"user"`
}

type UserSummary struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}
