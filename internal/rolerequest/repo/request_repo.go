package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/chefonex/service-api-core/internal/rolerequest/entity"
)

// RequestRepo provides data access for the role_requests ledger using sqlx.
type RequestRepo struct {
	db *sqlx.DB
}

func NewRequestRepo(db *sqlx.DB) *RequestRepo { return &RequestRepo{db: db} }

// EnsureSchema creates the role_requests table if not exists (idempotent).
// The partial unique index enforces at-most-one-pending-per-(email, type)
// at the store level, closing the submit race window.
func (r *RequestRepo) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS role_requests (
  id BIGSERIAL PRIMARY KEY,
  account_id BIGINT NOT NULL,
  requester_name TEXT NOT NULL DEFAULT '',
  email CITEXT NOT NULL,
  request_type TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  requested_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_role_requests_pending
  ON role_requests (email, request_type) WHERE status = 'pending';
CREATE INDEX IF NOT EXISTS idx_role_requests_requested_at ON role_requests (requested_at);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

// CreatePending inserts a new pending request, snapshotting requester name
// and email. When a pending request for the same (email, type) pair already
// exists the insert is skipped and sql.ErrNoRows is returned.
func (r *RequestRepo) CreatePending(ctx context.Context, req *entity.RoleRequest) (int64, error) {
	const q = `INSERT INTO role_requests (account_id, requester_name, email, request_type, status)
		VALUES ($1, $2, $3, $4, 'pending')
		ON CONFLICT (email, request_type) WHERE status = 'pending' DO NOTHING
		RETURNING id, requested_at`
	err := r.db.QueryRowxContext(ctx, q, req.AccountID, req.RequesterName, req.Email, req.RequestType).
		Scan(&req.ID, &req.RequestedAt)
	if err != nil {
		return 0, err
	}
	req.Status = entity.StatusPending
	return req.ID, nil
}

// List returns all requests, newest first.
func (r *RequestRepo) List(ctx context.Context) ([]*entity.RoleRequest, error) {
	const q = `SELECT id, account_id, requester_name, email, request_type, status, requested_at
		FROM role_requests ORDER BY requested_at DESC, id DESC`
	out := []*entity.RoleRequest{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// GetForUpdateTx loads a request row with a row lock so concurrent
// adjudications of the same request serialize.
func (r *RequestRepo) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id int64) (*entity.RoleRequest, error) {
	const q = `SELECT id, account_id, requester_name, email, request_type, status, requested_at
		FROM role_requests WHERE id=$1 FOR UPDATE`
	var req entity.RoleRequest
	if err := tx.GetContext(ctx, &req, q, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// MarkStatusTx applies the pending -> status transition. The status guard
// makes the transition a check-and-set: a request already settled is left
// untouched and false is returned.
func (r *RequestRepo) MarkStatusTx(ctx context.Context, tx *sqlx.Tx, id int64, status string) (bool, error) {
	const q = `UPDATE role_requests SET status=$2 WHERE id=$1 AND status='pending' RETURNING 1`
	var one int
	if err := tx.GetContext(ctx, &one, q, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CountPending returns the number of requests still awaiting adjudication.
func (r *RequestRepo) CountPending(ctx context.Context) (int64, error) {
	const q = `SELECT COUNT(*) FROM role_requests WHERE status='pending'`
	var n int64
	if err := r.db.GetContext(ctx, &n, q); err != nil {
		return 0, err
	}
	return n, nil
}
