package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/jcmexdev/foodcart/internal/core/domain"
)

type CatalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type menuItemRow struct {
	ID             string  `db:"id"`
	RestaurantID   string  `db:"restaurant_id"`
	RestaurantName string  `db:"restaurant_name"`
	Name           string  `db:"name"`
	Price          float64 `db:"price"`
	ImageURL       string  `db:"image_url"`
	Vegetarian     bool    `db:"vegetarian"`
}

func (r *CatalogRepository) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	const q = `
		SELECT m.id, m.restaurant_id, COALESCE(rs.name, '') AS restaurant_name,
		       m.name, m.price, m.image_url, m.vegetarian
		FROM   menu_items m
		LEFT   JOIN restaurants rs ON rs.id = m.restaurant_id
		WHERE  m.id = ?`

	var row menuItemRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(q), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMenuItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &domain.MenuItem{
		ID:             row.ID,
		RestaurantID:   row.RestaurantID,
		RestaurantName: row.RestaurantName,
		Name:           row.Name,
		Price:          row.Price,
		ImageURL:       row.ImageURL,
		Vegetarian:     row.Vegetarian,
	}, nil
}

// UpsertRestaurant updates the row and inserts it when nothing matched.
func (r *CatalogRepository) UpsertRestaurant(ctx context.Context, rs domain.Restaurant) error {
	return upsert(ctx, r.db,
		`UPDATE restaurants SET name = ?, description = ?, image_url = ? WHERE id = ?`,
		[]any{rs.Name, rs.Description, rs.ImageURL, rs.ID},
		`INSERT INTO restaurants (id, name, description, image_url) VALUES (?, ?, ?, ?)`,
		[]any{rs.ID, rs.Name, rs.Description, rs.ImageURL},
	)
}

func (r *CatalogRepository) UpsertMenuItem(ctx context.Context, m domain.MenuItem) error {
	return upsert(ctx, r.db,
		`UPDATE menu_items SET restaurant_id = ?, name = ?, price = ?, image_url = ?, vegetarian = ? WHERE id = ?`,
		[]any{m.RestaurantID, m.Name, m.Price, m.ImageURL, m.Vegetarian, m.ID},
		`INSERT INTO menu_items (id, restaurant_id, name, price, image_url, vegetarian) VALUES (?, ?, ?, ?, ?, ?)`,
		[]any{m.ID, m.RestaurantID, m.Name, m.Price, m.ImageURL, m.Vegetarian},
	)
}

// upsert runs update, and insert when the update matched no row. It uses
// no dialect specific syntax.
func upsert(ctx context.Context, db *sqlx.DB, update string, updateArgs []any, insert string, insertArgs []any) error {
	res, err := db.ExecContext(ctx, db.Rebind(update), updateArgs...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = db.ExecContext(ctx, db.Rebind(insert), insertArgs...)
	return err
}
