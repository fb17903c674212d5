package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"dailydiet/internal/models"
)

// PostgresStore implements Store on top of a pgx connection pool
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new PostgresStore instance
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping verifies database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// CreateUser inserts a new user row
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, session_id, name, email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.SessionID, user.Name, user.Email, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", mapConstraint(err))
	}
	return nil
}

// UserByEmail resolves a user by email
func (s *PostgresStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT id, session_id, name, email, created_at, updated_at
		 FROM users WHERE email = $1`, email))
}

// UserBySessionID resolves a user by session token
func (s *PostgresStore) UserBySessionID(ctx context.Context, sessionID string) (*models.User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT id, session_id, name, email, created_at, updated_at
		 FROM users WHERE session_id = $1`, sessionID))
}

func (s *PostgresStore) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.SessionID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// CreateMeal inserts a new meal row
func (s *PostgresStore) CreateMeal(ctx context.Context, meal *models.Meal) error {
	now := time.Now()
	meal.CreatedAt = now
	meal.UpdatedAt = now

	_, err := s.pool.Exec(ctx,
		`INSERT INTO meals (id, user_id, name, description, isdiet, date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		meal.ID, meal.UserID, meal.Name, meal.Description, meal.IsDiet, meal.Date,
		meal.CreatedAt, meal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert meal: %w", mapConstraint(err))
	}
	return nil
}

// MealByID resolves a meal by id alone
func (s *PostgresStore) MealByID(ctx context.Context, id uuid.UUID) (*models.Meal, error) {
	var m models.Meal
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, name, description, isdiet, date, created_at, updated_at
		 FROM meals WHERE id = $1`, id).
		Scan(&m.ID, &m.UserID, &m.Name, &m.Description, &m.IsDiet, &m.Date,
			&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan meal: %w", err)
	}
	return &m, nil
}

// MealsByUser lists a user's meals, most recent date first
func (s *PostgresStore) MealsByUser(ctx context.Context, userID uuid.UUID) ([]models.Meal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, name, description, isdiet, date, created_at, updated_at
		 FROM meals WHERE user_id = $1 ORDER BY date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}
	defer rows.Close()

	meals := []models.Meal{}
	for rows.Next() {
		var m models.Meal
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Description, &m.IsDiet,
			&m.Date, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meals: %w", err)
	}
	return meals, nil
}

// UpdateMeal overwrites the mutable fields of a meal. A concurrent delete
// between lookup and update makes this a no-op, which is accepted.
func (s *PostgresStore) UpdateMeal(ctx context.Context, meal *models.Meal) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE meals SET name = $2, description = $3, isdiet = $4, date = $5, updated_at = $6
		 WHERE id = $1`,
		meal.ID, meal.Name, meal.Description, meal.IsDiet, meal.Date, time.Now())
	if err != nil {
		return fmt.Errorf("update meal: %w", err)
	}
	return nil
}

// DeleteMeal removes a meal row by id
func (s *PostgresStore) DeleteMeal(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM meals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	return nil
}

// CountMealsByDiet counts a user's meals with the given diet flag
func (s *PostgresStore) CountMealsByDiet(ctx context.Context, userID uuid.UUID, isDiet bool) (int64, error) {
	var total int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(id) FROM meals WHERE user_id = $1 AND isdiet = $2`,
		userID, isDiet).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count meals: %w", err)
	}
	return total, nil
}

// mapConstraint translates a unique-violation into ErrDuplicate
func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
