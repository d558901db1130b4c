package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Rating is unique per (UserID, OrderID); uniqueness is kept by lookup before
// write, not by a schema constraint.
type Rating struct {
	ID           string
	UserID       string
	RestaurantID string
	OrderID      string
	Value        int
	UpdatedAt    time.Time
}
