package meal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/chefonex/service-api-core/internal/auth"
)

// Handler exposes HTTP endpoints for the meal catalog.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db, nil, nil), logger: logger}
}

// CreateRequest request body for adding a listing.
type CreateRequest struct {
	Name        string  `json:"name"`
	ImageURL    string  `json:"imageURL"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.EmailFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized Access."})
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid payload"})
		return
	}
	m, err := h.svc.Create(r.Context(), email, req.Name, req.ImageURL, req.Price, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotChef):
			h.writeJSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden Access"})
		case errors.Is(err, ErrNameRequired):
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "meal name required"})
		default:
			h.logger.Warnw("meal create failed", "email", email, "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "create failed"})
		}
		return
	}
	h.writeJSON(w, http.StatusCreated, m)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	meals, err := h.svc.List(r.Context(), q.Get("search"), limit, offset)
	if err != nil {
		h.logger.Warnw("meal list failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "list failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, meals)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"message": "meal not found"})
			return
		}
		h.logger.Warnw("meal get failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "fetch failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.EmailFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized Access."})
		return
	}
	err := h.svc.Delete(r.Context(), r.PathValue("id"), email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			h.writeJSON(w, http.StatusNotFound, map[string]string{"message": "meal not found"})
		case errors.Is(err, ErrNotOwner):
			h.writeJSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden Access"})
		default:
			h.logger.Warnw("meal delete failed", "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "delete failed"})
		}
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "meal deleted"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
