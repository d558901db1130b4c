package ports

import (
	"context"

	"github.com/jcmexdev/foodcart/internal/core/domain"
)

// The repositories below mirror what the record store offers: filtered read,
// insert, update and delete over one table per call. No method spans more
// than one statement and none of them opens a transaction.

type CartRepository interface {
	// ListLines returns the user's cart rows joined with their catalog data.
	ListLines(ctx context.Context, userID string) ([]domain.CartLine, error)
	InsertLine(ctx context.Context, userID, menuItemID string, quantity int) error
	SetQuantity(ctx context.Context, userID, menuItemID string, quantity int) error
	DeleteLine(ctx context.Context, userID, menuItemID string) error
	DeleteAll(ctx context.Context, userID string) error
}

type CatalogRepository interface {
	GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error)
	UpsertRestaurant(ctx context.Context, r domain.Restaurant) error
	UpsertMenuItem(ctx context.Context, m domain.MenuItem) error
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	InsertProfile(ctx context.Context, p domain.Profile) error
	UpdateProfile(ctx context.Context, p domain.Profile) error
}

type OrderRepository interface {
	NextID() (string, error)
	// InsertOrder writes the order row and returns its id. A non-empty
	// order.ID is kept as is.
	InsertOrder(ctx context.Context, order *domain.Order) (string, error)
	// InsertItems writes all items of one order as a single batch.
	InsertItems(ctx context.Context, orderID string, items []domain.OrderItem) error
	ListItems(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
	// UpdateStatus moves the order from one status to another and reports
	// whether a row matched both the id and the expected current status.
	UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (bool, error)
}

type RatingRepository interface {
	NextID() (string, error)
	// FindRating returns nil and no error when the user has not rated the order.
	FindRating(ctx context.Context, userID, orderID string) (*domain.Rating, error)
	InsertRating(ctx context.Context, r *domain.Rating) error
	UpdateRating(ctx context.Context, id string, value int) error
}
