package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/chefonex/service-api-core/internal/review/entity"
)

// ReviewRepo provides data access for the reviews table using sqlx.
type ReviewRepo struct {
	db *sqlx.DB
}

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// EnsureSchema creates the reviews table if it does not already exist.
func (r *ReviewRepo) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS reviews (
  id varchar(32) PRIMARY KEY,
  meal_id varchar(32) NOT NULL,
  user_email CITEXT NOT NULL,
  reviewer_name TEXT NOT NULL DEFAULT '',
  rating INT NOT NULL,
  comment TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_reviews_user_meal ON reviews (user_email, meal_id);
CREATE INDEX IF NOT EXISTS idx_reviews_meal_id ON reviews (meal_id);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Create inserts a review; a second review for the same (email, meal) pair
// is skipped and sql.ErrNoRows is returned.
func (r *ReviewRepo) Create(ctx context.Context, rv *entity.Review) error {
	const q = `INSERT INTO reviews (id, meal_id, user_email, reviewer_name, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_email, meal_id) DO NOTHING
		RETURNING created_at`
	return r.db.QueryRowxContext(ctx, q, rv.ID, rv.MealID, rv.UserEmail, rv.ReviewerName, rv.Rating, rv.Comment).
		Scan(&rv.CreatedAt)
}

// ListByMeal returns reviews for a meal, newest first.
func (r *ReviewRepo) ListByMeal(ctx context.Context, mealID string) ([]*entity.Review, error) {
	const q = `SELECT id, meal_id, user_email, reviewer_name, rating, comment, created_at
		FROM reviews WHERE meal_id=$1 ORDER BY created_at DESC, id DESC`
	out := []*entity.Review{}
	if err := r.db.SelectContext(ctx, &out, q, mealID); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a review owned by email; returns rows affected.
func (r *ReviewRepo) Delete(ctx context.Context, id, email string) (int64, error) {
	const q = `DELETE FROM reviews WHERE id=$1 AND user_email=$2`
	res, err := r.db.ExecContext(ctx, q, id, email)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the number of reviews; used by the stats endpoint.
func (r *ReviewRepo) Count(ctx context.Context) (int64, error) {
	const q = `SELECT COUNT(*) FROM reviews`
	var n int64
	if err := r.db.GetContext(ctx, &n, q); err != nil {
		return 0, err
	}
	return n, nil
}
