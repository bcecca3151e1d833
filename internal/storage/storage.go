package storage

import (
	"context"
	"errors"

	"github.com/spendlite/spendlite-be/internal/models"
)

// ErrNotFound indicates a record does not exist for the requesting user.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures user persistence operations needed by handlers.
type UserStore interface {
	// CreateUser inserts the user and its default categories atomically:
	// on any failure no user row remains.
	CreateUser(ctx context.Context, user models.User, defaultCategories []string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id int64) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
}

// CategoryStore captures category persistence scoped to an owning user.
type CategoryStore interface {
	ListCategories(ctx context.Context, userID int64) ([]models.Category, error)
	CreateCategory(ctx context.Context, userID int64, name string) (models.Category, error)
	// GetOrCreateCategory returns the user's category with the given name,
	// creating it on first use. A concurrent duplicate insert is resolved
	// by re-fetching the winning row.
	GetOrCreateCategory(ctx context.Context, userID int64, name string) (models.Category, error)
}

// ExpenseStore captures expense persistence scoped to an owning user.
// Lookups by id never cross user boundaries: a foreign id behaves exactly
// like a missing one.
type ExpenseStore interface {
	ListExpenses(ctx context.Context, userID int64) ([]models.Expense, error)
	GetExpense(ctx context.Context, userID, id int64) (models.Expense, error)
	CreateExpense(ctx context.Context, expense models.Expense) (models.Expense, error)
	UpdateExpense(ctx context.Context, expense models.Expense) (models.Expense, error)
	DeleteExpense(ctx context.Context, userID, id int64) error
}

// Store is the full persistence surface consumed by the HTTP layer.
type Store interface {
	UserStore
	CategoryStore
	ExpenseStore
}
