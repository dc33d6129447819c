// Package memory keeps users in process memory. It is meant for local runs and
// tests; the data is lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hongminglow/vault-auth/internal/models"
	"github.com/hongminglow/vault-auth/internal/storage"
)

var _ storage.UserStore = (*Store)(nil)

// Store is a mutex-guarded map keyed by username.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	users  map[string]models.User
	now    func() time.Time
}

// NewUserStore returns an empty store.
func NewUserStore() *Store {
	return &Store{
		users: make(map[string]models.User),
		now:   time.Now,
	}
}

// CreateUser inserts the user unless the username is taken.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = s.now().UTC()
	s.users[user.Username] = user
	return user, nil
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

// Ping always succeeds unless the context is done.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len reports how many users are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Close is a no-op kept for parity with the postgres store.
func (s *Store) Close() {}
