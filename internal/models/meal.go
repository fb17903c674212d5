package models

import (
	"time"

	"github.com/google/uuid"
)

// Meal represents a single recorded meal belonging to a user
type Meal struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	IsDiet      bool      `json:"isdiet" db:"isdiet"`
	Date        int64     `json:"date" db:"date"` // Meal instant as Unix epoch milliseconds
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
