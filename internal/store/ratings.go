package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jcmexdev/foodcart/internal/core/domain"
)

type RatingRepository struct {
	db *sqlx.DB
}

func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

type ratingRow struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	RestaurantID string    `db:"restaurant_id"`
	OrderID      string    `db:"order_id"`
	Value        int       `db:"rating"`
	UpdatedAt    timestamp `db:"updated_at"`
}

func (r *RatingRepository) NextID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (r *RatingRepository) FindRating(ctx context.Context, userID, orderID string) (*domain.Rating, error) {
	const q = `
		SELECT id, user_id, restaurant_id, order_id, rating, updated_at
		FROM   ratings
		WHERE  order_id = ? AND user_id = ?
		ORDER  BY updated_at DESC
		LIMIT  1`

	var row ratingRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(q), orderID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.Rating{
		ID:           row.ID,
		UserID:       row.UserID,
		RestaurantID: row.RestaurantID,
		OrderID:      row.OrderID,
		Value:        row.Value,
		UpdatedAt:    row.UpdatedAt.Time(),
	}, nil
}

func (r *RatingRepository) InsertRating(ctx context.Context, rt *domain.Rating) error {
	const q = `
		INSERT INTO ratings (id, user_id, restaurant_id, order_id, rating, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(q),
		rt.ID, rt.UserID, rt.RestaurantID, rt.OrderID, rt.Value, timestamp(rt.UpdatedAt))
	return err
}

func (r *RatingRepository) UpdateRating(ctx context.Context, id string, value int) error {
	const q = `UPDATE ratings SET rating = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(q), value, timestamp(timeNow()), id)
	return err
}
