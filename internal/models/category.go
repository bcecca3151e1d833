package models

// Category is a per-user expense bucket. Names are scoped to the owning
// user: two users may each have a "Food" category.
type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	UserID int64  `json:"-"`
}

// DefaultCategories are provisioned for every new user at registration,
// in this order.
var DefaultCategories = []string{"Food", "Transport", "Entertainment", "Bills", "Others"}
