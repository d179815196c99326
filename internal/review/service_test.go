package review

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServiceWithMock(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewService(db, nil, nil, nil), mock
}

func mealRow(id, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "chef_email", "chef_name", "chef_id", "name", "image_url", "price", "description", "created_at"}).
		AddRow(id, "b@x.com", "Bea", "Chef-1042", name, "", 18.0, "", time.Now())
}

func accountRow(id int64, email, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "display_name", "photo_url", "address", "role", "status", "chef_id", "created_at"}).
		AddRow(id, email, name, "", "", "user", "active", nil, time.Now())
}

func TestAddReview(t *testing.T) {
	t.Run("snapshots the reviewer display name", func(t *testing.T) {
		svc, mock := newServiceWithMock(t)
		mock.ExpectQuery("FROM meals WHERE id").WithArgs("m1").
			WillReturnRows(mealRow("m1", "Paella"))
		mock.ExpectQuery("SELECT id, email, display_name").WithArgs("a@x.com").
			WillReturnRows(accountRow(1, "a@x.com", "Ada"))
		mock.ExpectQuery("INSERT INTO reviews").
			WithArgs(sqlmock.AnyArg(), "m1", "a@x.com", "Ada", 4, "tasty").
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

		rv, err := svc.Add(context.Background(), "a@x.com", "m1", 4, "tasty")
		require.NoError(t, err)
		assert.Equal(t, "Ada", rv.ReviewerName)
		assert.NotEmpty(t, rv.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reviewing the same meal twice is a no-op", func(t *testing.T) {
		svc, mock := newServiceWithMock(t)
		mock.ExpectQuery("FROM meals WHERE id").WithArgs("m1").
			WillReturnRows(mealRow("m1", "Paella"))
		mock.ExpectQuery("SELECT id, email, display_name").WithArgs("a@x.com").
			WillReturnRows(accountRow(1, "a@x.com", "Ada"))
		mock.ExpectQuery("INSERT INTO reviews").
			WithArgs(sqlmock.AnyArg(), "m1", "a@x.com", "Ada", 5, "").
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}))

		_, err := svc.Add(context.Background(), "a@x.com", "m1", 5, "")
		assert.ErrorIs(t, err, ErrAlreadyReviewed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rating below range", func(t *testing.T) {
		svc, _ := newServiceWithMock(t)
		_, err := svc.Add(context.Background(), "a@x.com", "m1", 0, "")
		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("rating above range", func(t *testing.T) {
		svc, _ := newServiceWithMock(t)
		_, err := svc.Add(context.Background(), "a@x.com", "m1", 6, "")
		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("unknown meal", func(t *testing.T) {
		svc, mock := newServiceWithMock(t)
		mock.ExpectQuery("FROM meals WHERE id").WithArgs("m404").
			WillReturnRows(sqlmock.NewRows([]string{"id", "chef_email", "chef_name", "chef_id", "name", "image_url", "price", "description", "created_at"}))

		_, err := svc.Add(context.Background(), "a@x.com", "m404", 3, "")
		assert.ErrorIs(t, err, ErrMealNotFound)
	})
}

func TestRemoveReview(t *testing.T) {
	t.Run("removes own review", func(t *testing.T) {
		svc, mock := newServiceWithMock(t)
		mock.ExpectExec("DELETE FROM reviews WHERE id").WithArgs("r1", "a@x.com").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, svc.Remove(context.Background(), "r1", "a@x.com"))
	})

	t.Run("missing or foreign review", func(t *testing.T) {
		svc, mock := newServiceWithMock(t)
		mock.ExpectExec("DELETE FROM reviews WHERE id").WithArgs("r1", "b@x.com").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, svc.Remove(context.Background(), "r1", "b@x.com"), ErrNotFound)
	})
}
