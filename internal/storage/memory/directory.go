package memory

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/ordersvc/fulfillment/internal/domain/user"
)

// ErrUserNotFound is returned by the directory store for unknown user ids.
var ErrUserNotFound = errors.New("user not found")

// DirectoryStore is the user directory service's own in-memory store.
type DirectoryStore struct {
	mu     sync.RWMutex
	users  map[int64]user.User
	nextID int64
}

// NewDirectoryStore creates a store seeded with the demo directory: two
// active users and one inactive.
func NewDirectoryStore() *DirectoryStore {
	s := &DirectoryStore{
		users:  make(map[int64]user.User),
		nextID: 1,
	}
	for _, u := range []user.User{
		{Name: "Alice Smith", Email: "alice@example.com", Active: true},
		{Name: "Bob Jones", Email: "bob@example.com", Active: true},
		{Name: "Charlie Brown", Email: "charlie@example.com", Active: false},
	} {
		s.create(u)
	}
	return s
}

func (s *DirectoryStore) create(u user.User) user.User {
	u.ID = s.nextID
	s.nextID++
	s.users[u.ID] = u
	return u
}

// Create adds a user and assigns its identifier.
func (s *DirectoryStore) Create(ctx context.Context, u user.User) (user.User, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(u), nil
}

// Get returns the user with the given identifier, or ErrUserNotFound.
func (s *DirectoryStore) Get(ctx context.Context, id int64) (*user.User, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// List returns all users ordered by identifier.
func (s *DirectoryStore) List(ctx context.Context) ([]user.User, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]user.User, 0, len(s.users))
	for id := int64(1); id < s.nextID; id++ {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// Validate returns the directory verdict for a user: unknown and inactive
// users yield negative results, never errors.
func (s *DirectoryStore) Validate(ctx context.Context, id int64) (*user.ValidationResult, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return &user.ValidationResult{Valid: false, Reason: user.ReasonNotFound}, nil
	}
	if !u.Active {
		return &user.ValidationResult{Valid: false, Reason: user.ReasonInactive}, nil
	}
	return &user.ValidationResult{Valid: true, User: u}, nil
}
