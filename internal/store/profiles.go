package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/jcmexdev/foodcart/internal/core/domain"
)

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

type profileRow struct {
	UserID     string `db:"user_id"`
	FullName   string `db:"full_name"`
	Address    string `db:"address"`
	Phone      string `db:"phone"`
	Vegetarian bool   `db:"vegetarian"`
}

func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	const q = `SELECT user_id, full_name, address, phone, vegetarian FROM profiles WHERE user_id = ?`

	var row profileRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(q), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	p := domain.Profile(row)
	return &p, nil
}

func (r *ProfileRepository) InsertProfile(ctx context.Context, p domain.Profile) error {
	const q = `INSERT INTO profiles (user_id, full_name, address, phone, vegetarian) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(q), p.UserID, p.FullName, p.Address, p.Phone, p.Vegetarian)
	return err
}

func (r *ProfileRepository) UpdateProfile(ctx context.Context, p domain.Profile) error {
	const q = `UPDATE profiles SET full_name = ?, address = ?, phone = ?, vegetarian = ? WHERE user_id = ?`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(q), p.FullName, p.Address, p.Phone, p.Vegetarian, p.UserID)
	return err
}
