package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"dailydiet/internal/models"
)

// MockStore is an in-memory Store used by handler and middleware tests.
// It enforces the same unique constraints the schema does and preserves
// insertion order for equal dates, matching storage order.
type MockStore struct {
	mu    sync.Mutex
	users []models.User
	meals []models.Meal

	// FailWith, when set, is returned by every method to simulate an
	// unavailable database
	FailWith error
}

// NewMockStore creates an empty MockStore
func NewMockStore() *MockStore {
	return &MockStore{}
}

// Ping verifies connectivity
func (s *MockStore) Ping(ctx context.Context) error {
	return s.FailWith
}

// CreateUser inserts a new user row
func (s *MockStore) CreateUser(ctx context.Context, user *models.User) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email || u.SessionID == user.SessionID {
			return ErrDuplicate
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users = append(s.users, *user)
	return nil
}

// UserByEmail resolves a user by email
func (s *MockStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// UserBySessionID resolves a user by session token
func (s *MockStore) UserBySessionID(ctx context.Context, sessionID string) (*models.User, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.SessionID == sessionID {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// CreateMeal inserts a new meal row
func (s *MockStore) CreateMeal(ctx context.Context, meal *models.Meal) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	meal.CreatedAt = now
	meal.UpdatedAt = now
	s.meals = append(s.meals, *meal)
	return nil
}

// MealByID resolves a meal by id alone
func (s *MockStore) MealByID(ctx context.Context, id uuid.UUID) (*models.Meal, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.meals {
		if m.ID == id {
			meal := m
			return &meal, nil
		}
	}
	return nil, ErrNotFound
}

// MealsByUser lists a user's meals, most recent date first
func (s *MockStore) MealsByUser(ctx context.Context, userID uuid.UUID) ([]models.Meal, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	meals := []models.Meal{}
	for _, m := range s.meals {
		if m.UserID == userID {
			meals = append(meals, m)
		}
	}
	sort.SliceStable(meals, func(i, j int) bool {
		return meals[i].Date > meals[j].Date
	})
	return meals, nil
}

// UpdateMeal overwrites the mutable fields of a meal
func (s *MockStore) UpdateMeal(ctx context.Context, meal *models.Meal) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.meals {
		if s.meals[i].ID == meal.ID {
			s.meals[i].Name = meal.Name
			s.meals[i].Description = meal.Description
			s.meals[i].IsDiet = meal.IsDiet
			s.meals[i].Date = meal.Date
			s.meals[i].UpdatedAt = time.Now()
			return nil
		}
	}
	// Zero rows updated is not an error, matching UPDATE semantics
	return nil
}

// DeleteMeal removes a meal row by id
func (s *MockStore) DeleteMeal(ctx context.Context, id uuid.UUID) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.meals {
		if s.meals[i].ID == id {
			s.meals = append(s.meals[:i], s.meals[i+1:]...)
			return nil
		}
	}
	return nil
}

// CountMealsByDiet counts a user's meals with the given diet flag
func (s *MockStore) CountMealsByDiet(ctx context.Context, userID uuid.UUID, isDiet bool) (int64, error) {
	if s.FailWith != nil {
		return 0, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, m := range s.meals {
		if m.UserID == userID && m.IsDiet == isDiet {
			total++
		}
	}
	return total, nil
}
