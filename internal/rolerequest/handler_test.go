package rolerequest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/chefonex/service-api-core/internal/auth"
	"github.com/chefonex/service-api-core/internal/rolerequest/entity"
)

// stubVerifier resolves any bearer credential to a fixed email.
type stubVerifier struct{ email string }

func (s stubVerifier) Verify(ctx context.Context, token string) (string, error) {
	return s.email, nil
}

func newTestMux(t *testing.T) (*http.ServeMux, sqlmock.Sqlmock) {
	t.Helper()
	svc, mock := newServiceWithMock(t)
	logger := zap.NewNop().Sugar()
	h := NewHandlerWithService(svc, logger)
	identity := auth.RequireAuth(stubVerifier{email: "a@x.com"}, logger)

	mux := http.NewServeMux()
	mux.Handle("POST /role-requests", identity(http.HandlerFunc(h.Submit)))
	mux.Handle("PATCH /role-requests/{id}/approve", identity(http.HandlerFunc(h.Approve)))
	mux.Handle("PATCH /role-requests/{id}/reject", identity(http.HandlerFunc(h.Reject)))
	return mux, mock
}

func doRequest(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestSubmitHandler(t *testing.T) {
	t.Run("duplicate pending request answers with a no-op message", func(t *testing.T) {
		mux, mock := newTestMux(t)
		mock.ExpectQuery("SELECT id, email, display_name").WithArgs("a@x.com").
			WillReturnRows(accountRows(1, "a@x.com", "Ada", "user"))
		mock.ExpectQuery("INSERT INTO role_requests").WithArgs(int64(1), "Ada", "a@x.com", entity.TypeChef).
			WillReturnRows(sqlmock.NewRows([]string{"id", "requested_at"}))

		rec := doRequest(mux, http.MethodPost, "/role-requests", `{"requestType":"chef"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Request already pending"}`, rec.Body.String())
	})

	t.Run("invalid request type is a bad request", func(t *testing.T) {
		mux, _ := newTestMux(t)
		rec := doRequest(mux, http.MethodPost, "/role-requests", `{"requestType":"superuser"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("created request is returned", func(t *testing.T) {
		mux, mock := newTestMux(t)
		mock.ExpectQuery("SELECT id, email, display_name").WithArgs("a@x.com").
			WillReturnRows(accountRows(1, "a@x.com", "Ada", "user"))
		mock.ExpectQuery("INSERT INTO role_requests").WithArgs(int64(1), "Ada", "a@x.com", entity.TypeAdmin).
			WillReturnRows(sqlmock.NewRows([]string{"id", "requested_at"}).AddRow(int64(11), time.Now()))

		rec := doRequest(mux, http.MethodPost, "/role-requests", `{"requestType":"admin"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"pending"`)
	})
}

func TestAdjudicationHandler(t *testing.T) {
	t.Run("missing request id is not found", func(t *testing.T) {
		mux, mock := newTestMux(t)
		mock.ExpectBegin()
		mock.ExpectQuery("FROM role_requests WHERE id").WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "requester_name", "email", "request_type", "status", "requested_at"}))
		mock.ExpectRollback()

		rec := doRequest(mux, http.MethodPatch, "/role-requests/404/approve", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("settled request conflicts", func(t *testing.T) {
		mux, mock := newTestMux(t)
		mock.ExpectBegin()
		mock.ExpectQuery("FROM role_requests WHERE id").WithArgs(int64(5)).
			WillReturnRows(requestRow(5, 1, "a@x.com", entity.TypeChef, entity.StatusApproved))
		mock.ExpectRollback()

		rec := doRequest(mux, http.MethodPatch, "/role-requests/5/approve", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.JSONEq(t, `{"message":"request already settled"}`, rec.Body.String())
	})

	t.Run("rejection settles the request", func(t *testing.T) {
		mux, mock := newTestMux(t)
		mock.ExpectBegin()
		mock.ExpectQuery("FROM role_requests WHERE id").WithArgs(int64(5)).
			WillReturnRows(requestRow(5, 1, "a@x.com", entity.TypeChef, entity.StatusPending))
		mock.ExpectQuery("UPDATE role_requests SET status").WithArgs(int64(5), entity.StatusRejected).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
		mock.ExpectCommit()

		rec := doRequest(mux, http.MethodPatch, "/role-requests/5/reject", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"rejected"`)
	})

	t.Run("non-numeric id is a bad request", func(t *testing.T) {
		mux, _ := newTestMux(t)
		rec := doRequest(mux, http.MethodPatch, "/role-requests/abc/approve", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
