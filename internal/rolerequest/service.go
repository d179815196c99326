package rolerequest

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	accountrepo "github.com/chefonex/service-api-core/internal/account/repo"
	"github.com/chefonex/service-api-core/internal/rolerequest/entity"
	requestrepo "github.com/chefonex/service-api-core/internal/rolerequest/repo"
)

var (
	ErrAccountNotFound = errors.New("requester account not found")
	ErrAlreadyPending  = errors.New("request already pending")
	ErrInvalidType     = errors.New("invalid request type")
	ErrNotFound        = errors.New("request not found")
	ErrNotPending      = errors.New("request already settled")
	ErrMintExhausted   = errors.New("chef id space exhausted")
)

// ChefIDPrefix is the fixed literal prefix of minted chef identifiers.
const ChefIDPrefix = "Chef-"

// maxMintAttempts bounds the retry-on-collision loop when minting a chef
// identifier. The 4-digit suffix space is small; exhaustion is surfaced
// rather than looped on forever.
const maxMintAttempts = 8

// Service owns the role-elevation ledger and the adjudication state
// machine. Approve applies the account mutation and the ledger transition
// in a single transaction.
type Service struct {
	db       *sqlx.DB
	requests *requestrepo.RequestRepo
	accounts *accountrepo.AccountRepo
}

func NewService(db *sqlx.DB, requests *requestrepo.RequestRepo, accounts *accountrepo.AccountRepo) *Service {
	if requests == nil {
		requests = requestrepo.NewRequestRepo(db)
	}
	if accounts == nil {
		accounts = accountrepo.NewAccountRepo(db)
	}
	return &Service{db: db, requests: requests, accounts: accounts}
}

// Submit records an elevation request for the verified caller. A request
// already pending for the same (email, type) pair is an idempotent no-op
// reported as ErrAlreadyPending.
func (s *Service) Submit(ctx context.Context, email, requestType string) (*entity.RoleRequest, error) {
	if !entity.ValidType(requestType) {
		return nil, ErrInvalidType
	}
	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	req := &entity.RoleRequest{
		AccountID:     acct.ID,
		RequesterName: acct.DisplayName,
		Email:         acct.Email,
		RequestType:   requestType,
	}
	if _, err := s.requests.CreatePending(ctx, req); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlreadyPending
		}
		// a concurrent submit can still surface the index directly
		if isUniqueViolation(err) {
			return nil, ErrAlreadyPending
		}
		return nil, err
	}
	return req, nil
}

// List returns the full ledger, newest first. Admin-gated at the router.
func (s *Service) List(ctx context.Context) ([]*entity.RoleRequest, error) {
	return s.requests.List(ctx)
}

// Approve applies an admin approval to a pending request: the privilege
// grant (and chef identifier minting for chef requests) and the
// pending -> approved transition commit together or not at all.
func (s *Service) Approve(ctx context.Context, id int64) (*entity.RoleRequest, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	req, err := s.requests.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.Status != entity.StatusPending {
		return nil, ErrNotPending
	}

	switch req.RequestType {
	case entity.TypeChef:
		chefID, err := s.mintChefID(ctx, tx)
		if err != nil {
			return nil, err
		}
		if err := s.accounts.GrantChefTx(ctx, tx, req.Email, chefID); err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("chef id collision: %w", err)
			}
			return nil, err
		}
	case entity.TypeAdmin:
		if err := s.accounts.GrantAdminTx(ctx, tx, req.Email); err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidType
	}

	ok, err := s.requests.MarkStatusTx(ctx, tx, id, entity.StatusApproved)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotPending
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	req.Status = entity.StatusApproved
	return req, nil
}

// Reject applies an admin rejection: pending -> rejected, no account
// mutation.
func (s *Service) Reject(ctx context.Context, id int64) (*entity.RoleRequest, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	req, err := s.requests.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.Status != entity.StatusPending {
		return nil, ErrNotPending
	}
	ok, err := s.requests.MarkStatusTx(ctx, tx, id, entity.StatusRejected)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotPending
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	req.Status = entity.StatusRejected
	return req, nil
}

// mintChefID draws Chef- plus a 4-digit suffix in [1000, 9999] and retries
// while the candidate is already assigned. The unique index on
// accounts.chef_id backs the pre-check.
func (s *Service) mintChefID(ctx context.Context, tx *sqlx.Tx) (string, error) {
	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		n, err := rand.Int(rand.Reader, big.NewInt(9000))
		if err != nil {
			return "", err
		}
		candidate := fmt.Sprintf("%s%d", ChefIDPrefix, n.Int64()+1000)
		taken, err := s.accounts.ChefIDTakenTx(ctx, tx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrMintExhausted
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
