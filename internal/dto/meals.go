package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dailydiet/internal/models"
)

// MealRequest represents the request payload for creating or updating a meal
type MealRequest struct {
	Name        *string    `json:"name" validate:"required"`
	Description *string    `json:"description" validate:"required"`
	IsDiet      *bool      `json:"isdiet" validate:"required"`
	Date        *EpochTime `json:"date" validate:"required"`
}

// MealsResponse wraps the meal list returned by GET /meals
type MealsResponse struct {
	Meals []models.Meal `json:"meals"`
}

// MealResponse wraps a single meal returned by GET /meals/{mealId}
type MealResponse struct {
	Meal models.Meal `json:"meal"`
}

// MetricsResponse represents the adherence summary for a user
type MetricsResponse struct {
	TotalMeals         int64 `json:"totalMeals"`
	TotalMealsOnDiet   int64 `json:"totalMealsOnDiet"`
	TotalMealsOffDiet  int64 `json:"totalMealsOffDiet"`
	BestOnDietSequence int   `json:"bestOnDietSequence"`
}

// EpochTime is a meal instant that accepts the formats clients actually send:
// an RFC3339 timestamp, a plain YYYY-MM-DD date, or a Unix epoch-millisecond
// number. It always marshals back as epoch milliseconds.
type EpochTime struct {
	time.Time
}

var epochTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler
func (t *EpochTime) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		for _, layout := range epochTimeLayouts {
			if parsed, err := time.Parse(layout, raw); err == nil {
				t.Time = parsed
				return nil
			}
		}
		return fmt.Errorf("date %q is not a recognized timestamp", raw)
	}

	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("date %q is not a recognized timestamp", s)
	}
	t.Time = time.UnixMilli(ms)
	return nil
}

// MarshalJSON implements json.Marshaler
func (t EpochTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(t.UnixMilli(), 10)), nil
}

// Milliseconds returns the instant as Unix epoch milliseconds, the unit the
// meals table stores
func (t EpochTime) Milliseconds() int64 {
	return t.UnixMilli()
}
