package domain

import (
	"context"
	"strings"
	"time"
)

// Role is one of the fixed application roles.
type Role string

const (
	RoleUser   Role = "ROLE_USER"
	RoleAdmin  Role = "ROLE_ADMIN"
	RoleSeller Role = "ROLE_SELLER"
)

// Permission is a capability granted by one or more roles.
type Permission string

const (
	PermCatalogRead  Permission = "catalog:read"
	PermCatalogWrite Permission = "catalog:write"
)

// ParseRole maps a sign-up role name onto a Role. Unrecognised names fall
// back to RoleUser.
func ParseRole(name string) Role {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "admin", "role_admin":
		return RoleAdmin
	case "seller", "role_seller":
		return RoleSeller
	default:
		return RoleUser
	}
}

// ParseRoles converts requested role names into a deduplicated role set.
// An empty request yields the default USER role.
func ParseRoles(names []string) []Role {
	if len(names) == 0 {
		return []Role{RoleUser}
	}
	seen := make(map[Role]struct{}, len(names))
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		r := ParseRole(n)
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		roles = append(roles, r)
	}
	return roles
}

// Permissions returns the permissions granted by r.
func (r Role) Permissions() []Permission {
	switch r {
	case RoleAdmin:
		return []Permission{PermCatalogRead, PermCatalogWrite}
	case RoleSeller:
		return []Permission{PermCatalogRead}
	case RoleUser:
		return []Permission{PermCatalogRead}
	default:
		return nil
	}
}

// User is the credential store record.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string `json:"-"`
	Roles        []Role
}

// NewPrincipal builds a Principal from a stored user.
func NewPrincipal(u *User) *Principal {
	roles := make([]Role, len(u.Roles))
	copy(roles, u.Roles)
	return &Principal{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Roles:        roles,
	}
}

// HasRole reports whether the principal holds role.
func (p *Principal) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Can reports whether any of the principal's roles grants perm.
func (p *Principal) Can(perm Permission) bool {
	for _, r := range p.Roles {
		for _, granted := range r.Permissions() {
			if granted == perm {
				return true
			}
		}
	}
	return false
}

// RoleNames returns the wire names of the principal's roles.
func (p *Principal) RoleNames() []string {
	names := make([]string, len(p.Roles))
	for i, r := range p.Roles {
		names[i] = string(r)
	}
	return names
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal attached to ctx, if any.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

// Authorize checks that ctx carries a principal holding perm.
func Authorize(ctx context.Context, perm Permission) (*Principal, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	if !p.Can(perm) {
		return nil, ErrForbidden
	}
	return p, nil
}
