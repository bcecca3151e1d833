// Package memory provides an in-memory implementation of the storage
// interfaces. It backs handler tests and local development without a
// Postgres instance, enforcing the same per-user scoping and uniqueness
// rules as the Postgres store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spendlite/spendlite-be/internal/models"
	"github.com/spendlite/spendlite-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps all records in maps guarded by a single mutex.
type Store struct {
	mu         sync.Mutex
	users      map[int64]models.User
	categories map[int64]models.Category
	expenses   map[int64]models.Expense
	nextUser   int64
	nextCat    int64
	nextExp    int64
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:      make(map[int64]models.User),
		categories: make(map[int64]models.Category),
		expenses:   make(map[int64]models.Expense),
	}
}

// CreateUser inserts a user and its default categories. The email
// uniqueness check and all inserts happen under one lock, mirroring the
// Postgres transaction.
func (s *Store) CreateUser(_ context.Context, user models.User, defaultCategories []string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}

	s.nextUser++
	user.ID = s.nextUser
	user.CreatedAt = time.Now()
	s.users[user.ID] = user

	for _, name := range defaultCategories {
		s.nextCat++
		s.categories[s.nextCat] = models.Category{ID: s.nextCat, Name: name, UserID: user.ID}
	}
	return user, nil
}

// FindUserByEmail fetches a user by exact email match.
func (s *Store) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

// FindUserByID fetches a user by id.
func (s *Store) FindUserByID(_ context.Context, id int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

// UpdateUser replaces the profile fields of an existing user.
func (s *Store) UpdateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.ID]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	for id, other := range s.users {
		if id != user.ID && other.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	current.Email = user.Email
	current.Username = user.Username
	s.users[user.ID] = current
	return current, nil
}

// ListCategories returns the user's categories in insertion order.
func (s *Store) ListCategories(_ context.Context, userID int64) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Category{}
	for id := int64(1); id <= s.nextCat; id++ {
		if c, ok := s.categories[id]; ok && c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

// CreateCategory inserts a category, rejecting a duplicate name for the
// same user.
func (s *Store) CreateCategory(_ context.Context, userID int64, name string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createCategoryLocked(userID, name)
}

// GetOrCreateCategory resolves a category by name, creating it on first use.
func (s *Store) GetOrCreateCategory(_ context.Context, userID int64, name string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.findCategoryLocked(userID, name); ok {
		return c, nil
	}
	return s.createCategoryLocked(userID, name)
}

func (s *Store) createCategoryLocked(userID int64, name string) (models.Category, error) {
	if _, ok := s.findCategoryLocked(userID, name); ok {
		return models.Category{}, storage.ErrAlreadyExists
	}
	s.nextCat++
	c := models.Category{ID: s.nextCat, Name: name, UserID: userID}
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) findCategoryLocked(userID int64, name string) (models.Category, bool) {
	for _, c := range s.categories {
		if c.UserID == userID && c.Name == name {
			return c, true
		}
	}
	return models.Category{}, false
}

// ListExpenses returns the user's expenses, newest date first.
func (s *Store) ListExpenses(_ context.Context, userID int64) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Expense{}
	for _, e := range s.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// GetExpense fetches one expense constrained to the owning user.
func (s *Store) GetExpense(_ context.Context, userID, id int64) (models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getExpenseLocked(userID, id)
}

// CreateExpense inserts an expense owned by expense.UserID.
func (s *Store) CreateExpense(_ context.Context, expense models.Expense) (models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[expense.CategoryID]
	if !ok || category.UserID != expense.UserID {
		return models.Expense{}, storage.ErrNotFound
	}
	s.nextExp++
	expense.ID = s.nextExp
	expense.CategoryName = category.Name
	s.expenses[expense.ID] = expense
	return expense, nil
}

// UpdateExpense replaces all fields of an existing expense owned by the
// requesting user.
func (s *Store) UpdateExpense(_ context.Context, expense models.Expense) (models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getExpenseLocked(expense.UserID, expense.ID); err != nil {
		return models.Expense{}, err
	}
	category, ok := s.categories[expense.CategoryID]
	if !ok || category.UserID != expense.UserID {
		return models.Expense{}, storage.ErrNotFound
	}
	expense.CategoryName = category.Name
	s.expenses[expense.ID] = expense
	return expense, nil
}

// DeleteExpense removes an expense constrained to the owning user.
func (s *Store) DeleteExpense(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getExpenseLocked(userID, id); err != nil {
		return err
	}
	delete(s.expenses, id)
	return nil
}

func (s *Store) getExpenseLocked(userID, id int64) (models.Expense, error) {
	e, ok := s.expenses[id]
	if !ok || e.UserID != userID {
		return models.Expense{}, storage.ErrNotFound
	}
	return e, nil
}
