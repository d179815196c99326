package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/chefonex/service-api-core/internal/account/entity"
)

// AccountRepo provides data access for the accounts table using sqlx.
type AccountRepo struct {
	db *sqlx.DB
}

func NewAccountRepo(db *sqlx.DB) *AccountRepo { return &AccountRepo{db: db} }

// EnsureSchema creates the accounts table if not exists (idempotent).
// Prefer migrations in production.
func (r *AccountRepo) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE EXTENSION IF NOT EXISTS citext;
CREATE TABLE IF NOT EXISTS accounts (
  id BIGSERIAL PRIMARY KEY,
  email CITEXT UNIQUE NOT NULL,
  display_name TEXT NOT NULL DEFAULT '',
  photo_url TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL DEFAULT 'user',
  status TEXT NOT NULL DEFAULT 'active',
  chef_id TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_chef_id ON accounts(chef_id) WHERE chef_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_accounts_role ON accounts(role);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// Create inserts a new account. The insert is a no-op when an account with
// the same email already exists; that case surfaces as sql.ErrNoRows.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) (int64, error) {
	const q = `INSERT INTO accounts (email, display_name, photo_url, address, role, status, chef_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO NOTHING
		RETURNING id`
	var id int64
	err := r.db.QueryRowxContext(ctx, q, a.Email, a.DisplayName, a.PhotoURL, a.Address, a.Role, a.Status, a.ChefID).Scan(&id)
	if err != nil {
		return 0, err
	}
	a.ID = id
	return id, nil
}

// GetByEmail returns the account matched by email (case-insensitive due to
// citext) or sql.ErrNoRows.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	const q = `SELECT id, email, display_name, photo_url, address, role, status, chef_id, created_at
		FROM accounts WHERE email=$1`
	var a entity.Account
	if err := r.db.GetContext(ctx, &a, q, email); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID fetches an account row by internal identifier.
func (r *AccountRepo) GetByID(ctx context.Context, id int64) (*entity.Account, error) {
	const q = `SELECT id, email, display_name, photo_url, address, role, status, chef_id, created_at
		FROM accounts WHERE id=$1`
	var a entity.Account
	if err := r.db.GetContext(ctx, &a, q, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns all accounts, newest first.
func (r *AccountRepo) List(ctx context.Context) ([]*entity.Account, error) {
	const q = `SELECT id, email, display_name, photo_url, address, role, status, chef_id, created_at
		FROM accounts ORDER BY created_at DESC, id DESC`
	out := []*entity.Account{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// RoleByEmail returns only the role column; used by the admin gate.
func (r *AccountRepo) RoleByEmail(ctx context.Context, email string) (string, error) {
	const q = `SELECT role FROM accounts WHERE email=$1`
	var role string
	if err := r.db.GetContext(ctx, &role, q, email); err != nil {
		return "", err
	}
	return role, nil
}

// MarkFraud sets status='fraud' for the given account id. Targeted
// field-level update so concurrent role grants are not clobbered.
func (r *AccountRepo) MarkFraud(ctx context.Context, id int64) (bool, error) {
	const q = `UPDATE accounts SET status='fraud' WHERE id=$1 RETURNING 1`
	var one int
	if err := r.db.GetContext(ctx, &one, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GrantChefTx sets role='chef' and assigns the minted chef identifier
// within the adjudication transaction. COALESCE keeps an already-assigned
// identifier so repeated grants never reassign it.
func (r *AccountRepo) GrantChefTx(ctx context.Context, tx *sqlx.Tx, email, chefID string) error {
	const q = `UPDATE accounts SET role='chef', chef_id=COALESCE(chef_id, $2) WHERE email=$1`
	_, err := tx.ExecContext(ctx, q, email, chefID)
	return err
}

// GrantAdminTx sets role='admin' within the adjudication transaction;
// chef_id is untouched.
func (r *AccountRepo) GrantAdminTx(ctx context.Context, tx *sqlx.Tx, email string) error {
	const q = `UPDATE accounts SET role='admin' WHERE email=$1`
	_, err := tx.ExecContext(ctx, q, email)
	return err
}

// ChefIDTakenTx reports whether a chef identifier is already assigned to
// any account. The partial unique index on chef_id remains the final
// arbiter; this pre-check keeps collisions out of the happy path.
func (r *AccountRepo) ChefIDTakenTx(ctx context.Context, tx *sqlx.Tx, chefID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM accounts WHERE chef_id=$1)`
	var taken bool
	if err := tx.GetContext(ctx, &taken, q, chefID); err != nil {
		return false, err
	}
	return taken, nil
}
