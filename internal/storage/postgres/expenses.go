package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/spendlite/spendlite-be/internal/models"
	"github.com/spendlite/spendlite-be/internal/storage"
)

// ListExpenses returns all expenses owned by the user, newest date first,
// each carrying its category's display name.
func (s *Store) ListExpenses(ctx context.Context, userID int64) ([]models.Expense, error) {
	const query = `
		SELECT e.id, e.title, e.amount::text, e.date, e.description, e.category_id, c.name, e.user_id
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = $1
		ORDER BY e.date DESC, e.id DESC;
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// GetExpense fetches one expense by id, constrained to the owning user.
// A foreign id is indistinguishable from a missing one.
func (s *Store) GetExpense(ctx context.Context, userID, id int64) (models.Expense, error) {
	const query = `
		SELECT e.id, e.title, e.amount::text, e.date, e.description, e.category_id, c.name, e.user_id
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.id = $1 AND e.user_id = $2;
	`
	return scanExpense(s.pool.QueryRow(ctx, query, id, userID))
}

// CreateExpense inserts a new expense owned by expense.UserID.
func (s *Store) CreateExpense(ctx context.Context, expense models.Expense) (models.Expense, error) {
	const query = `
		WITH inserted AS (
			INSERT INTO expenses (user_id, category_id, title, amount, date, description)
			VALUES ($1, $2, $3, $4::numeric, $5, $6)
			RETURNING id, title, amount, date, description, category_id, user_id
		)
		SELECT i.id, i.title, i.amount::text, i.date, i.description, i.category_id, c.name, i.user_id
		FROM inserted i
		JOIN categories c ON c.id = i.category_id;
	`
	row := s.pool.QueryRow(ctx, query,
		expense.UserID, expense.CategoryID, expense.Title,
		expense.Amount.String(), expense.Date.Time, expense.Description)
	return scanExpense(row)
}

// UpdateExpense replaces all fields of an existing expense, constrained to
// the owning user.
func (s *Store) UpdateExpense(ctx context.Context, expense models.Expense) (models.Expense, error) {
	const query = `
		WITH updated AS (
			UPDATE expenses
			SET title = $3, amount = $4::numeric, date = $5, description = $6, category_id = $7
			WHERE id = $1 AND user_id = $2
			RETURNING id, title, amount, date, description, category_id, user_id
		)
		SELECT u.id, u.title, u.amount::text, u.date, u.description, u.category_id, c.name, u.user_id
		FROM updated u
		JOIN categories c ON c.id = u.category_id;
	`
	row := s.pool.QueryRow(ctx, query,
		expense.ID, expense.UserID, expense.Title,
		expense.Amount.String(), expense.Date.Time, expense.Description, expense.CategoryID)
	return scanExpense(row)
}

// DeleteExpense removes an expense by id, constrained to the owning user.
func (s *Store) DeleteExpense(ctx context.Context, userID, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2;`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanExpense(row pgx.Row) (models.Expense, error) {
	var (
		e      models.Expense
		amount string
		date   time.Time
	)
	if err := row.Scan(&e.ID, &e.Title, &amount, &date, &e.Description, &e.CategoryID, &e.CategoryName, &e.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Expense{}, storage.ErrNotFound
		}
		return models.Expense{}, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Expense{}, fmt.Errorf("parse stored amount %q: %w", amount, err)
	}
	e.Amount = parsed
	e.Date = models.NewDate(date)
	return e, nil
}
