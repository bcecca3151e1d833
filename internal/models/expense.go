package models

import "github.com/shopspring/decimal"

// Expense is a single spending record owned by a user. CategoryName is
// denormalized from the joined category for API responses.
type Expense struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Amount       decimal.Decimal `json:"amount"`
	Date         Date            `json:"date"`
	CategoryID   int64           `json:"category"`
	CategoryName string          `json:"category_name"`
	Description  string          `json:"description"`
	UserID       int64           `json:"-"`
}
