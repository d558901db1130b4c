package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jcmexdev/foodcart/internal/core/domain"
)

type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

type orderRow struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	RestaurantID    string    `db:"restaurant_id"`
	RestaurantName  string    `db:"restaurant_name"`
	TotalAmount     float64   `db:"total_amount"`
	Status          string    `db:"status"`
	DeliveryAddress string    `db:"delivery_address"`
	PaymentMethod   string    `db:"payment_method"`
	CreatedAt       timestamp `db:"created_at"`
}

// toDomain refuses rows whose status or payment method is outside the known
// set. The sentinel is not wrapped: a corrupt row is a store failure, not bad
// caller input.
func (row orderRow) toDomain() (domain.Order, error) {
	status, err := domain.ParseOrderStatus(row.Status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("order %s: stored status: %v", row.ID, err)
	}
	method, err := domain.ParsePaymentMethod(row.PaymentMethod)
	if err != nil {
		return domain.Order{}, fmt.Errorf("order %s: stored payment method: %v", row.ID, err)
	}
	return domain.Order{
		ID:              row.ID,
		UserID:          row.UserID,
		RestaurantID:    row.RestaurantID,
		RestaurantName:  row.RestaurantName,
		TotalAmount:     row.TotalAmount,
		Status:          status,
		DeliveryAddress: row.DeliveryAddress,
		PaymentMethod:   method,
		CreatedAt:       row.CreatedAt.Time(),
	}, nil
}

type orderItemRow struct {
	OrderID     string  `db:"order_id"`
	MenuItemID  string  `db:"menu_item_id"`
	Name        string  `db:"name"`
	Quantity    int     `db:"quantity"`
	PriceAtTime float64 `db:"price_at_time"`
}

const selectOrder = `
	SELECT o.id, o.user_id, o.restaurant_id, COALESCE(rs.name, '') AS restaurant_name,
	       o.total_amount, o.status, o.delivery_address, o.payment_method, o.created_at
	FROM   orders o
	LEFT   JOIN restaurants rs ON rs.id = o.restaurant_id`

func (r *OrderRepository) NextID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (r *OrderRepository) InsertOrder(ctx context.Context, o *domain.Order) (string, error) {
	if o.ID == "" {
		id, err := r.NextID()
		if err != nil {
			return "", err
		}
		o.ID = id
	}

	const q = `
		INSERT INTO orders
			(id, user_id, restaurant_id, total_amount, status, delivery_address, payment_method, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, r.db.Rebind(q),
		o.ID,
		o.UserID,
		o.RestaurantID,
		o.TotalAmount,
		string(o.Status),
		o.DeliveryAddress,
		string(o.PaymentMethod),
		timestamp(o.CreatedAt),
	)
	if err != nil {
		return "", err
	}
	return o.ID, nil
}

// InsertItems writes every item with one multi-row INSERT, so the batch lands
// completely or not at all.
func (r *OrderRepository) InsertItems(ctx context.Context, orderID string, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO order_items (id, order_id, menu_item_id, quantity, price_at_time) VALUES `)
	args := make([]any, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?)")
		args = append(args, uuid.NewString(), orderID, it.MenuItemID, it.Quantity, it.PriceAtTime)
	}

	_, err := r.db.ExecContext(ctx, r.db.Rebind(sb.String()), args...)
	return err
}

func (r *OrderRepository) ListItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const q = `
		SELECT oi.order_id, oi.menu_item_id, COALESCE(m.name, '') AS name, oi.quantity, oi.price_at_time
		FROM   order_items oi
		LEFT   JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE  oi.order_id = ?
		ORDER  BY oi.menu_item_id`

	var rows []orderItemRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), orderID); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.OrderItem(row))
	}
	return items, nil
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(selectOrder+` WHERE o.id = ?`), orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	o, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	var rows []orderRow
	q := selectOrder + ` WHERE o.user_id = ? ORDER BY o.created_at DESC, o.id`
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), userID); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		o, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// UpdateStatus only matches the row while it is still in status from.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (bool, error) {
	const q = `UPDATE orders SET status = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), string(to), orderID, string(from))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
