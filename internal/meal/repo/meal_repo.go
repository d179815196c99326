package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/chefonex/service-api-core/internal/meal/entity"
)

// MealRepo provides data access for the meals table using sqlx.
type MealRepo struct {
	db *sqlx.DB
}

func NewMealRepo(db *sqlx.DB) *MealRepo { return &MealRepo{db: db} }

// EnsureSchema creates the meals table if not exists (idempotent).
func (r *MealRepo) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS meals (
  id varchar(32) PRIMARY KEY,
  chef_email CITEXT NOT NULL,
  chef_name TEXT NOT NULL DEFAULT '',
  chef_id TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  price NUMERIC(10,2) NOT NULL DEFAULT 0,
  description TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_meals_chef_email ON meals (chef_email);
CREATE INDEX IF NOT EXISTS idx_meals_name ON meals (name);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Create inserts a meal row.
func (r *MealRepo) Create(ctx context.Context, m *entity.Meal) error {
	const q = `INSERT INTO meals (id, chef_email, chef_name, chef_id, name, image_url, price, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`
	return r.db.QueryRowxContext(ctx, q, m.ID, m.ChefEmail, m.ChefName, m.ChefID, m.Name, m.ImageURL, m.Price, m.Description).
		Scan(&m.CreatedAt)
}

// GetByID fetches a meal or sql.ErrNoRows.
func (r *MealRepo) GetByID(ctx context.Context, id string) (*entity.Meal, error) {
	const q = `SELECT id, chef_email, chef_name, chef_id, name, image_url, price, description, created_at
		FROM meals WHERE id=$1`
	var m entity.Meal
	if err := r.db.GetContext(ctx, &m, q, id); err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns meals newest first, optionally filtered by a case-insensitive
// name match, with limit/offset pagination.
func (r *MealRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Meal, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	out := []*entity.Meal{}
	if search != "" {
		const q = `SELECT id, chef_email, chef_name, chef_id, name, image_url, price, description, created_at
			FROM meals WHERE name ILIKE '%' || $1 || '%'
			ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
		if err := r.db.SelectContext(ctx, &out, q, search, limit, offset); err != nil {
			return nil, err
		}
		return out, nil
	}
	const q = `SELECT id, chef_email, chef_name, chef_id, name, image_url, price, description, created_at
		FROM meals ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &out, q, limit, offset); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a meal owned by chefEmail; returns rows affected.
func (r *MealRepo) Delete(ctx context.Context, id, chefEmail string) (int64, error) {
	const q = `DELETE FROM meals WHERE id=$1 AND chef_email=$2`
	res, err := r.db.ExecContext(ctx, q, id, chefEmail)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the number of catalog rows; used by the stats endpoint.
func (r *MealRepo) Count(ctx context.Context) (int64, error) {
	const q = `SELECT COUNT(*) FROM meals`
	var n int64
	if err := r.db.GetContext(ctx, &n, q); err != nil {
		return 0, err
	}
	return n, nil
}
