// Package memory provides mutex-serialized in-memory stores with the same
// contracts as the pgx repositories. All writers go through one lock per
// store, which is what makes the booking admission check atomic here.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"pirouette/internal/models"
	"pirouette/internal/repository"
)

type UserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]models.User)}
}

func (s *UserStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = user
	return nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *UserStore) GetByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *UserStore) Update(_ context.Context, params repository.UpdateUserParams) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[params.ID]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}

	if params.Email != nil && !strings.EqualFold(*params.Email, user.Email) {
		for _, existing := range s.users {
			if strings.EqualFold(existing.Email, *params.Email) {
				return models.User{}, repository.ErrDuplicateEmail
			}
		}
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.PasswordHash != nil {
		user.PasswordHash = params.PasswordHash
	}
	if params.Role != nil {
		user.Role = *params.Role
	}
	user.UpdatedAt = time.Now()

	s.users[params.ID] = user
	return user, nil
}

func (s *UserStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)
	return true, nil
}

func (s *UserStore) List(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}
