package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlite/spendlite-be/internal/models"
	"github.com/spendlite/spendlite-be/internal/storage"
)

// TestStoreIntegration exercises the store against a live Postgres.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_POSTGRES_INTEGRATION") != "true" {
		t.Skip("set RUN_POSTGRES_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := NewStore(ctx, dbURL)
	require.NoError(t, err, "init store")
	defer store.Close()

	email := fmt.Sprintf("itest_%d@example.com", time.Now().UnixNano())
	user, err := store.CreateUser(ctx, models.User{
		Email:        email,
		Username:     "itest",
		PasswordHash: "not-a-real-hash",
	}, models.DefaultCategories)
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	_, err = store.CreateUser(ctx, models.User{Email: email, Username: "dup", PasswordHash: "x"}, models.DefaultCategories)
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	categories, err := store.ListCategories(ctx, user.ID)
	require.NoError(t, err)
	names := []string{}
	for _, c := range categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, models.DefaultCategories, names)

	first, err := store.GetOrCreateCategory(ctx, user.ID, "Groceries")
	require.NoError(t, err)
	second, err := store.GetOrCreateCategory(ctx, user.ID, "Groceries")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	date, err := models.ParseDate("2024-01-01")
	require.NoError(t, err)
	created, err := store.CreateExpense(ctx, models.Expense{
		Title:       "Lunch",
		Amount:      decimal.RequireFromString("12.50"),
		Date:        date,
		CategoryID:  first.ID,
		Description: "integration",
		UserID:      user.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Groceries", created.CategoryName)
	assert.True(t, created.Amount.Equal(decimal.RequireFromString("12.50")), "amount = %s", created.Amount)

	created.Title = "Brunch"
	created.Amount = decimal.RequireFromString("15.00")
	updated, err := store.UpdateExpense(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Brunch", updated.Title)

	_, err = store.GetExpense(ctx, user.ID+1, created.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "foreign user must not see the expense")

	require.NoError(t, store.DeleteExpense(ctx, user.ID, created.ID))
	assert.ErrorIs(t, store.DeleteExpense(ctx, user.ID, created.ID), storage.ErrNotFound)
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
		"../../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
