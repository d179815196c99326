package favorite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/chefonex/service-api-core/internal/favorite/entity"
	favoriterepo "github.com/chefonex/service-api-core/internal/favorite/repo"
	mealrepo "github.com/chefonex/service-api-core/internal/meal/repo"
	"github.com/chefonex/service-api-core/pkg/utilities"
)

var (
	ErrAlreadyFavorited = errors.New("already favorited")
	ErrMealNotFound     = errors.New("meal not found")
	ErrNotFound         = errors.New("favorite not found")
)

// Service owns favorites; adding the same meal twice is an idempotent
// no-op reported as ErrAlreadyFavorited.
type Service struct {
	repo  *favoriterepo.FavoriteRepo
	meals *mealrepo.MealRepo
}

func NewService(db *sqlx.DB, r *favoriterepo.FavoriteRepo, meals *mealrepo.MealRepo) *Service {
	if r == nil {
		r = favoriterepo.NewFavoriteRepo(db)
	}
	if meals == nil {
		meals = mealrepo.NewMealRepo(db)
	}
	return &Service{repo: r, meals: meals}
}

// Add favorites a meal for the caller, snapshotting its name.
func (s *Service) Add(ctx context.Context, email, mealID string) (*entity.Favorite, error) {
	m, err := s.meals.GetByID(ctx, mealID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}
	f := &entity.Favorite{
		ID:        utilities.NewSnowflakeID(),
		UserEmail: email,
		MealID:    m.ID,
		MealName:  m.Name,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlreadyFavorited
		}
		return nil, err
	}
	return f, nil
}

// ListByUser returns the caller's favorites, newest first.
func (s *Service) ListByUser(ctx context.Context, email string) ([]*entity.Favorite, error) {
	return s.repo.ListByUser(ctx, email)
}

// Remove deletes one of the caller's favorites.
func (s *Service) Remove(ctx context.Context, id, email string) error {
	rows, err := s.repo.Delete(ctx, id, email)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
