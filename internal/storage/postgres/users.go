package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/meal-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type usersStorage struct {
	pool *pgxpool.Pool
}

func newUsersStorage(pool *pgxpool.Pool) *usersStorage {
	return &usersStorage{pool: pool}
}

func (s *usersStorage) CreateUser(ctx context.Context, user *storage.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, email, name, physical_activity, dietary_preferences, created_at, updated_at)
		VALUES ($1, LOWER($2), $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PhysicalActivity,
		user.DietaryPreferences,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (s *usersStorage) GetUser(ctx context.Context, id string) (storage.User, bool, error) {
	query := `
		SELECT id, email, name, physical_activity, dietary_preferences, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user, err := s.scanUser(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.User{}, false, nil
	}
	if err != nil {
		return storage.User{}, false, fmt.Errorf("failed to get user: %w", err)
	}

	return user, true, nil
}

func (s *usersStorage) GetUserByEmail(ctx context.Context, email string) (storage.User, bool, error) {
	query := `
		SELECT id, email, name, physical_activity, dietary_preferences, created_at, updated_at
		FROM users
		WHERE email = LOWER($1)
	`

	user, err := s.scanUser(s.pool.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.User{}, false, nil
	}
	if err != nil {
		return storage.User{}, false, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, true, nil
}

func (s *usersStorage) ListUsers(ctx context.Context, limit, offset int) ([]storage.User, error) {
	query := `
		SELECT id, email, name, physical_activity, dietary_preferences, created_at, updated_at
		FROM users
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []storage.User
	for rows.Next() {
		user, err := s.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (s *usersStorage) UpdateUser(ctx context.Context, user *storage.User) error {
	query := `
		UPDATE users
		SET email = LOWER($2), name = $3, physical_activity = $4, dietary_preferences = $5, updated_at = NOW()
		WHERE id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PhysicalActivity,
		user.DietaryPreferences,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *usersStorage) DeleteUser(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *usersStorage) scanUser(row pgx.Row) (storage.User, error) {
	var user storage.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PhysicalActivity,
		&user.DietaryPreferences,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}
