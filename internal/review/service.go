package review

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	accountrepo "github.com/chefonex/service-api-core/internal/account/repo"
	mealrepo "github.com/chefonex/service-api-core/internal/meal/repo"
	"github.com/chefonex/service-api-core/internal/review/entity"
	reviewrepo "github.com/chefonex/service-api-core/internal/review/repo"
	"github.com/chefonex/service-api-core/pkg/utilities"
)

var (
	ErrAlreadyReviewed = errors.New("already reviewed")
	ErrMealNotFound    = errors.New("meal not found")
	ErrNotFound        = errors.New("review not found")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// Service owns meal reviews; one review per (caller, meal).
type Service struct {
	repo     *reviewrepo.ReviewRepo
	meals    *mealrepo.MealRepo
	accounts *accountrepo.AccountRepo
}

func NewService(db *sqlx.DB, r *reviewrepo.ReviewRepo, meals *mealrepo.MealRepo, accounts *accountrepo.AccountRepo) *Service {
	if r == nil {
		r = reviewrepo.NewReviewRepo(db)
	}
	if meals == nil {
		meals = mealrepo.NewMealRepo(db)
	}
	if accounts == nil {
		accounts = accountrepo.NewAccountRepo(db)
	}
	return &Service{repo: r, meals: meals, accounts: accounts}
}

// Add records the caller's review of a meal, snapshotting the reviewer
// display name.
func (s *Service) Add(ctx context.Context, email, mealID string, rating int, comment string) (*entity.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := s.meals.GetByID(ctx, mealID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}
	name := ""
	if acct, err := s.accounts.GetByEmail(ctx, email); err == nil {
		name = acct.DisplayName
	}
	rv := &entity.Review{
		ID:           utilities.NewSnowflakeID(),
		MealID:       mealID,
		UserEmail:    email,
		ReviewerName: name,
		Rating:       rating,
		Comment:      comment,
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	return rv, nil
}

// ListByMeal returns a meal's reviews, newest first.
func (s *Service) ListByMeal(ctx context.Context, mealID string) ([]*entity.Review, error) {
	return s.repo.ListByMeal(ctx, mealID)
}

// Remove deletes one of the caller's reviews.
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
