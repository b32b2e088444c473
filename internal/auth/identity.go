package auth

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Role enumerates the purchaser roles known to the billing engine.
type Role string

const (
	RoleEmployee  Role = "EMPLOYEE"
	RoleAffiliate Role = "AFFILIATE"
	RoleCustomer  Role = "CUSTOMER"
)

// ParseRole normalises and validates a role string.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleEmployee:
		return RoleEmployee, nil
	case RoleAffiliate:
		return RoleAffiliate, nil
	case RoleCustomer:
		return RoleCustomer, nil
	}
	return "", fmt.Errorf("auth: unknown role %q", value)
}

// Identity describes the authenticated caller for the duration of one request.
// The billing engine only reads it; it is never mutated or persisted.
type Identity struct {
	Username      string     `json:"username"`
	Role          Role       `json:"role"`
	CustomerSince *time.Time `json:"customerSince,omitempty"`
}

// LongTermCustomer reports whether the identity is a CUSTOMER whose tenure
// started more than two years before now.
func (i Identity) LongTermCustomer(now time.Time) bool {
	if i.Role != RoleCustomer || i.CustomerSince == nil {
		return false
	}
	return i.CustomerSince.Before(now.AddDate(-2, 0, 0))
}

type identityKey struct{}

// WithIdentity stores the authenticated identity on the provided context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext extracts the authenticated identity if present.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(identityKey{}).(Identity)
	return v, ok
}
