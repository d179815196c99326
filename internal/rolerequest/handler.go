package rolerequest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/chefonex/service-api-core/internal/auth"
	"github.com/chefonex/service-api-core/internal/rolerequest/entity"
)

// Handler exposes HTTP endpoints for role-elevation requests and their
// adjudication.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db, nil, nil), logger: logger}
}

func NewHandlerWithService(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// SubmitRequest request body for submitting an elevation request.
type SubmitRequest struct {
	RequestType string `json:"requestType"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.EmailFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized Access."})
		return
	}
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid payload"})
		return
	}
	created, err := h.svc.Submit(r.Context(), email, req.RequestType)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyPending):
			h.writeJSON(w, http.StatusOK, map[string]string{"message": "Request already pending"})
		case errors.Is(err, ErrInvalidType):
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request type"})
		case errors.Is(err, ErrAccountNotFound):
			h.writeJSON(w, http.StatusNotFound, map[string]string{"message": "account not found"})
		default:
			h.logger.Warnw("role request submit failed", "email", email, "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "submit failed"})
		}
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Warnw("role request list failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "list failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, requests)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.adjudicate(w, r, h.svc.Approve)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.adjudicate(w, r, h.svc.Reject)
}

func (h *Handler) adjudicate(w http.ResponseWriter, r *http.Request, decide func(ctx context.Context, id int64) (*entity.RoleRequest, error)) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid id"})
		return
	}
	req, err := decide(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			h.writeJSON(w, http.StatusNotFound, map[string]string{"message": "request not found"})
		case errors.Is(err, ErrNotPending):
			h.writeJSON(w, http.StatusConflict, map[string]string{"message": "request already settled"})
		default:
			h.logger.Warnw("adjudication failed", "id", id, "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "adjudication failed"})
		}
		return
	}
	h.writeJSON(w, http.StatusOK, req)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
