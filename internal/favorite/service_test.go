package favorite

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
	return NewService(db, nil, nil), mock
}

func mealRow(id, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "chef_email", "chef_name", "chef_id", "name", "image_url", "price", "description", "created_at"}).
		AddRow(id, "b@x.com", "Bea", "Chef-1042", name, "", 18.0, "", time.Now())
}

func TestAddFavorite(t *testing.T) {
	t.Run("snapshots the meal name", func(t *testing.T) {
		svc, mock := newServiceWithMock(t)
		mock.ExpectQuery("FROM meals WHERE id").WithArgs("m1").
			WillReturnRows(mealRow("m1", "Paella"))
		mock.ExpectQuery("INSERT INTO favorites").
			WithArgs(sqlmock.AnyArg(), "a@x.com", "m1", "Paella").
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

		f, err := svc.Add(context.Background(), "a@x.com", "m1")
		require.NoError(t, err)
		assert.Equal(t, "Paella", f.MealName)
		assert.NotEmpty(t, f.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("favoriting the same meal twice is a no-op", func(t *testing.T) {
		svc, mock := newServiceWithMock(t)
		mock.ExpectQuery("FROM meals WHERE id").WithArgs("m1").
			WillReturnRows(mealRow("m1", "Paella"))
		mock.ExpectQuery("INSERT INTO favorites").
			WithArgs(sqlmock.AnyArg(), "a@x.com", "m1", "Paella").
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}))

		_, err := svc.Add(context.Background(), "a@x.com", "m1")
		assert.ErrorIs(t, err, ErrAlreadyFavorited)
	})

	t.Run("unknown meal", func(t *testing.T) {
		svc, mock := newServiceWithMock(t)
		mock.ExpectQuery("FROM meals WHERE id").WithArgs("m404").
			WillReturnRows(sqlmock.NewRows([]string{"id", "chef_email", "chef_name", "chef_id", "name", "image_url", "price", "description", "created_at"}))

		_, err := svc.Add(context.Background(), "a@x.com", "m404")
		assert.ErrorIs(t, err, ErrMealNotFound)
	})
}

func TestRemoveFavorite(t *testing.T) {
	t.Run("removes own favorite", func(t *testing.T) {
		svc, mock := newServiceWithMock(t)
		mock.ExpectExec("DELETE FROM favorites WHERE id").WithArgs("f1", "a@x.com").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, svc.Remove(context.Background(), "f1", "a@x.com"))
	})

	t.Run("missing or foreign favorite", func(t *testing.T) {
		svc, mock := newServiceWithMock(t)
		mock.ExpectExec("DELETE FROM favorites WHERE id").WithArgs("f1", "b@x.com").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, svc.Remove(context.Background(), "f1", "b@x.com"), ErrNotFound)
	})
}
