package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const userColumns = `id, name, email`

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	query := `INSERT INTO users (name, email) VALUES (?, ?) RETURNING id`
	if err := s.get(ctx, &u.ID, query, u.Name, u.Email); err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("email %s is already registered", u.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.get(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := s.selectAll(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	n, err := s.exec(ctx, `UPDATE users SET name = ?, email = ? WHERE id = ?`, u.Name, u.Email, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("email %s is already registered", u.Email)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n == 0 {
		return domain.NotFound("user", u.ID)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	n, err := s.exec(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflict("user %d still owns items, bookings, comments or requests", id)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n == 0 {
		return domain.NotFound("user", id)
	}
	return nil
}
