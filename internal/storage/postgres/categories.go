package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spendlite/spendlite-be/internal/models"
	"github.com/spendlite/spendlite-be/internal/storage"
)

// ListCategories returns all categories owned by the user.
func (s *Store) ListCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	const query = `
		SELECT id, name, user_id
		FROM categories
		WHERE user_id = $1
		ORDER BY id;
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.UserID); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory inserts a category for the user. A duplicate name for the
// same user maps to storage.ErrAlreadyExists.
func (s *Store) CreateCategory(ctx context.Context, userID int64, name string) (models.Category, error) {
	const query = `
		INSERT INTO categories (user_id, name)
		VALUES ($1, $2)
		RETURNING id, name, user_id;
	`
	row := s.pool.QueryRow(ctx, query, userID, name)
	created, err := scanCategory(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.Category{}, storage.ErrAlreadyExists
		}
		return models.Category{}, err
	}
	return created, nil
}

// GetOrCreateCategory resolves a category name for the user, creating it on
// first use. If a concurrent request wins the insert race, the conflict is
// absorbed by re-fetching the existing row.
func (s *Store) GetOrCreateCategory(ctx context.Context, userID int64, name string) (models.Category, error) {
	existing, err := s.findCategory(ctx, userID, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Category{}, err
	}

	created, err := s.CreateCategory(ctx, userID, name)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return s.findCategory(ctx, userID, name)
	}
	return created, err
}

func (s *Store) findCategory(ctx context.Context, userID int64, name string) (models.Category, error) {
	const query = `
		SELECT id, name, user_id
		FROM categories
		WHERE user_id = $1 AND name = $2;
	`
	row := s.pool.QueryRow(ctx, query, userID, name)
	return scanCategory(row)
}

func scanCategory(row pgx.Row) (models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Category{}, storage.ErrNotFound
		}
		return models.Category{}, err
	}
	return c, nil
}
