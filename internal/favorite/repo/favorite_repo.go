package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/chefonex/service-api-core/internal/favorite/entity"
)

// FavoriteRepo provides data access for the favorites table using sqlx.
type FavoriteRepo struct {
	db *sqlx.DB
}

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// EnsureSchema creates the favorites table if it does not already exist.
func (r *FavoriteRepo) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS favorites (
  id varchar(32) PRIMARY KEY,
  user_email CITEXT NOT NULL,
  meal_id varchar(32) NOT NULL,
  meal_name TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_favorites_user_meal ON favorites (user_email, meal_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Create inserts a favorite; the insert is skipped when the (email, meal)
// pair already exists and sql.ErrNoRows is returned.
func (r *FavoriteRepo) Create(ctx context.Context, f *entity.Favorite) error {
	const q = `INSERT INTO favorites (id, user_email, meal_id, meal_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_email, meal_id) DO NOTHING
		RETURNING created_at`
	return r.db.QueryRowxContext(ctx, q, f.ID, f.UserEmail, f.MealID, f.MealName).Scan(&f.CreatedAt)
}

// ListByUser returns the caller's favorites, newest first.
func (r *FavoriteRepo) ListByUser(ctx context.Context, email string) ([]*entity.Favorite, error) {
	const q = `SELECT id, user_email, meal_id, meal_name, created_at
		FROM favorites WHERE user_email=$1 ORDER BY created_at DESC, id DESC`
	out := []*entity.Favorite{}
	if err := r.db.SelectContext(ctx, &out, q, email); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a favorite owned by email; returns rows affected.
func (r *FavoriteRepo) Delete(ctx context.Context, id, email string) (int64, error) {
	const q = `DELETE FROM favorites WHERE id=$1 AND user_email=$2`
	res, err := r.db.ExecContext(ctx, q, id, email)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
