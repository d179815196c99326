package account

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/chefonex/service-api-core/internal/account/entity"
	accountrepo "github.com/chefonex/service-api-core/internal/account/repo"
)

var (
	ErrAccountExists   = errors.New("account exists")
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailRequired   = errors.New("email required")
)

// Service orchestrates account lifecycle flows: idempotent creation on
// first sign-in, listing, and fraud marking.
type Service struct {
	repo *accountrepo.AccountRepo
}

func NewService(db *sqlx.DB, r *accountrepo.AccountRepo) *Service {
	if r == nil {
		r = accountrepo.NewAccountRepo(db)
	}
	return &Service{repo: r}
}

// Register creates an account for a first sign-in. A second registration
// for the same email is a no-op reported as ErrAccountExists; the stored
// record is never mutated by it.
func (s *Service) Register(ctx context.Context, email, displayName, photoURL, address string) (*entity.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	a := &entity.Account{
		Email:       email,
		DisplayName: displayName,
		PhotoURL:    photoURL,
		Address:     address,
		Role:        entity.RoleUser,
		Status:      entity.StatusActive,
		ChefID:      nil,
	}
	if _, err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountExists
		}
		return nil, err
	}
	return a, nil
}

// List returns all accounts, newest first.
func (s *Service) List(ctx context.Context) ([]*entity.Account, error) {
	return s.repo.List(ctx)
}

// GetByEmail resolves an account by its natural key.
func (s *Service) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return a, nil
}

// MarkFraud flags the account status as fraud by internal identifier.
func (s *Service) MarkFraud(ctx context.Context, id int64) error {
	ok, err := s.repo.MarkFraud(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccountNotFound
	}
	return nil
}
