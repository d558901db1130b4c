package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jcmexdev/foodcart/internal/core/domain"
)

type CartRepository struct {
	db *sqlx.DB
}

func NewCartRepository(db *sqlx.DB) *CartRepository {
	return &CartRepository{db: db}
}

type cartLineRow struct {
	ID             string  `db:"id"`
	MenuItemID     string  `db:"menu_item_id"`
	Quantity       int     `db:"quantity"`
	UnitPrice      float64 `db:"price"`
	RestaurantID   string  `db:"restaurant_id"`
	RestaurantName string  `db:"restaurant_name"`
	Name           string  `db:"name"`
	ImageURL       string  `db:"image_url"`
}

// ListLines joins the rows with the catalog, so UnitPrice is the current
// menu price.
func (r *CartRepository) ListLines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	const q = `
		SELECT c.id, c.menu_item_id, c.quantity, m.price, m.restaurant_id,
		       COALESCE(rs.name, '') AS restaurant_name, m.name, m.image_url
		FROM   cart c
		JOIN   menu_items m ON m.id = c.menu_item_id
		LEFT   JOIN restaurants rs ON rs.id = m.restaurant_id
		WHERE  c.user_id = ?
		ORDER  BY c.created_at, c.id`

	var rows []cartLineRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), userID); err != nil {
		return nil, err
	}

	lines := make([]domain.CartLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, domain.CartLine{
			CartRowID:      row.ID,
			MenuItemID:     row.MenuItemID,
			Quantity:       row.Quantity,
			UnitPrice:      row.UnitPrice,
			RestaurantID:   row.RestaurantID,
			RestaurantName: row.RestaurantName,
			Name:           row.Name,
			ImageURL:       row.ImageURL,
		})
	}
	return lines, nil
}

func (r *CartRepository) InsertLine(ctx context.Context, userID, menuItemID string, quantity int) error {
	const q = `INSERT INTO cart (id, user_id, menu_item_id, quantity, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(q), uuid.NewString(), userID, menuItemID, quantity, timestamp(timeNow()))
	return err
}

func (r *CartRepository) SetQuantity(ctx context.Context, userID, menuItemID string, quantity int) error {
	const q = `UPDATE cart SET quantity = ? WHERE user_id = ? AND menu_item_id = ?`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(q), quantity, userID, menuItemID)
	return err
}

func (r *CartRepository) DeleteLine(ctx context.Context, userID, menuItemID string) error {
	const q = `DELETE FROM cart WHERE user_id = ? AND menu_item_id = ?`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(q), userID, menuItemID)
	return err
}

func (r *CartRepository) DeleteAll(ctx context.Context, userID string) error {
	const q = `DELETE FROM cart WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(q), userID)
	return err
}
