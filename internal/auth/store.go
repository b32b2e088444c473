package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/noah-isme/backend-kasir/internal/config"
)

// User pairs an identity with its password hash in the static user table.
type User struct {
	Identity     Identity
	PasswordHash string
}

// Store is an immutable in-memory user table built once at startup.
type Store struct {
	users map[string]User
}

// NewStore builds a store from seed entries, hashing passwords with argon2id.
// Duplicate usernames fail construction.
func NewStore(seeds []config.UserSeed) (*Store, error) {
	users := make(map[string]User, len(seeds))
	for _, seed := range seeds {
		role, err := ParseRole(seed.Role)
		if err != nil {
			return nil, fmt.Errorf("seed user %q: %w", seed.Username, err)
		}
		key := strings.ToLower(seed.Username)
		if _, exists := users[key]; exists {
			return nil, fmt.Errorf("seed user %q: duplicate username", seed.Username)
		}
		hash, err := argon2id.CreateHash(seed.Password, argon2id.DefaultParams)
		if err != nil {
			return nil, fmt.Errorf("seed user %q: hash password: %w", seed.Username, err)
		}
		users[key] = User{
			Identity: Identity{
				Username:      seed.Username,
				Role:          role,
				CustomerSince: seed.CustomerSince,
			},
			PasswordHash: hash,
		}
	}
	return &Store{users: users}, nil
}

// DefaultSeeds returns the demo user table used when AUTH_USERS is not set.
// Not for production deployments.
func DefaultSeeds(now time.Time) []config.UserSeed {
	longTerm := now.AddDate(-3, 0, 0)
	recent := now.AddDate(0, -6, 0)
	return []config.UserSeed{
		{Username: "employee", Password: "employee-pass", Role: string(RoleEmployee)},
		{Username: "affiliate", Password: "affiliate-pass", Role: string(RoleAffiliate)},
		{Username: "loyal-customer", Password: "customer-pass", Role: string(RoleCustomer), CustomerSince: &longTerm},
		{Username: "new-customer", Password: "customer-pass", Role: string(RoleCustomer), CustomerSince: &recent},
	}
}

// Find looks up a user by username, case-insensitively.
func (s *Store) Find(username string) (User, bool) {
	if s == nil {
		return User{}, false
	}
	user, ok := s.users[strings.ToLower(strings.TrimSpace(username))]
	return user, ok
}
