// Package storage holds durable state for users and meals behind a small
// interface so handlers never touch the connection pool directly.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"dailydiet/internal/models"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique constraint
var ErrDuplicate = errors.New("duplicate row")

// Store is the persistence surface the handlers depend on
type Store interface {
	// Ping verifies database connectivity
	Ping(ctx context.Context) error

	// CreateUser inserts a new user row
	CreateUser(ctx context.Context, user *models.User) error
	// UserByEmail resolves a user by email, ErrNotFound if none
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserBySessionID resolves a user by session token, ErrNotFound if none
	UserBySessionID(ctx context.Context, sessionID string) (*models.User, error)

	// CreateMeal inserts a new meal row
	CreateMeal(ctx context.Context, meal *models.Meal) error
	// MealByID resolves a meal by id alone, ErrNotFound if none
	MealByID(ctx context.Context, id uuid.UUID) (*models.Meal, error)
	// MealsByUser lists a user's meals ordered by date descending
	MealsByUser(ctx context.Context, userID uuid.UUID) ([]models.Meal, error)
	// UpdateMeal overwrites name, description, isdiet and date for a meal id
	UpdateMeal(ctx context.Context, meal *models.Meal) error
	// DeleteMeal removes a meal row by id
	DeleteMeal(ctx context.Context, id uuid.UUID) error
	// CountMealsByDiet counts a user's meals with the given diet flag
	CountMealsByDiet(ctx context.Context, userID uuid.UUID, isDiet bool) (int64, error)
}
