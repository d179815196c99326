package account

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Handler exposes HTTP endpoints for account operations.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db, nil), logger: logger}
}

// RegisterRequest request body for account creation on first sign-in.
type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
	Address     string `json:"address"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid payload"})
		return
	}
	a, err := h.svc.Register(r.Context(), req.Email, req.DisplayName, req.PhotoURL, req.Address)
	if err != nil {
		switch {
		case errors.Is(err, ErrAccountExists):
			h.writeJSON(w, http.StatusOK, map[string]string{"message": "User Exists"})
		case errors.Is(err, ErrEmailRequired):
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "email required"})
		default:
			h.logger.Warnw("account registration failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "registration failed"})
		}
		return
	}
	h.writeJSON(w, http.StatusCreated, a)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Warnw("account list failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "list failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, accounts)
}

func (h *Handler) MarkFraud(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid id"})
		return
	}
	if err := h.svc.MarkFraud(r.Context(), id); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"message": "account not found"})
			return
		}
		h.logger.Warnw("fraud marking failed", "id", id, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "update failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "account marked as fraud"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
