package meal

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	accountentity "github.com/chefonex/service-api-core/internal/account/entity"
	accountrepo "github.com/chefonex/service-api-core/internal/account/repo"
	"github.com/chefonex/service-api-core/internal/meal/entity"
	mealrepo "github.com/chefonex/service-api-core/internal/meal/repo"
	"github.com/chefonex/service-api-core/pkg/utilities"
)

var (
	ErrNotFound     = errors.New("meal not found")
	ErrNotChef      = errors.New("caller is not a chef")
	ErrNotOwner     = errors.New("caller does not own this meal")
	ErrNameRequired = errors.New("meal name required")
)

// Service owns the meal catalog. Creation is restricted to accounts
// holding chef role; the chef identifier is snapshotted onto the listing.
type Service struct {
	repo     *mealrepo.MealRepo
	accounts *accountrepo.AccountRepo
}

func NewService(db *sqlx.DB, r *mealrepo.MealRepo, accounts *accountrepo.AccountRepo) *Service {
	if r == nil {
		r = mealrepo.NewMealRepo(db)
	}
	if accounts == nil {
		accounts = accountrepo.NewAccountRepo(db)
	}
	return &Service{repo: r, accounts: accounts}
}

// Create adds a listing for the verified chef caller.
func (s *Service) Create(ctx context.Context, chefEmail, name, imageURL string, price float64, description string) (*entity.Meal, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}
	acct, err := s.accounts.GetByEmail(ctx, chefEmail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotChef
		}
		return nil, err
	}
	if acct.Role != accountentity.RoleChef || acct.ChefID == nil {
		return nil, ErrNotChef
	}
	m := &entity.Meal{
		ID:          utilities.NewKSUID(),
		ChefEmail:   acct.Email,
		ChefName:    acct.DisplayName,
		ChefID:      *acct.ChefID,
		Name:        strings.TrimSpace(name),
		ImageURL:    imageURL,
		Price:       price,
		Description: description,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Get fetches one listing.
func (s *Service) Get(ctx context.Context, id string) (*entity.Meal, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// List searches and paginates the catalog.
func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]*entity.Meal, error) {
	return s.repo.List(ctx, search, limit, offset)
}

// Delete removes a listing; only the owning chef may remove it.
func (s *Service) Delete(ctx context.Context, id, callerEmail string) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if !strings.EqualFold(m.ChefEmail, callerEmail) {
		return ErrNotOwner
	}
	rows, err := s.repo.Delete(ctx, id, m.ChefEmail)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
