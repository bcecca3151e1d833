package dto

import "encoding/json"

// ExpenseRequest is the create/update payload. Amount is kept raw so the
// handler can report a field-level error instead of failing the whole
// decode, and Category is a name string resolved per-user on the server.
type ExpenseRequest struct {
	Title       string          `json:"title"`
	Amount      json.RawMessage `json:"amount"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}
