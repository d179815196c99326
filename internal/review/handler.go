package review

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/chefonex/service-api-core/internal/auth"
)

// Handler exposes HTTP endpoints for reviews.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db, nil, nil, nil), logger: logger}
}

// AddRequest request body for reviewing a meal.
type AddRequest struct {
	MealID  string `json:"mealId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.EmailFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized Access."})
		return
	}
	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MealID == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid payload"})
		return
	}
	rv, err := h.svc.Add(r.Context(), email, req.MealID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyReviewed):
			h.writeJSON(w, http.StatusOK, map[string]string{"message": "Review already submitted"})
		case errors.Is(err, ErrMealNotFound):
			h.writeJSON(w, http.StatusNotFound, map[string]string{"message": "meal not found"})
		case errors.Is(err, ErrInvalidRating):
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "rating must be between 1 and 5"})
		default:
			h.logger.Warnw("review add failed", "email", email, "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "add failed"})
		}
		return
	}
	h.writeJSON(w, http.StatusCreated, rv)
}

func (h *Handler) ListByMeal(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.ListByMeal(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Warnw("review list failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "list failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.EmailFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized Access."})
		return
	}
	if err := h.svc.Remove(r.Context(), r.PathValue("id"), email); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"message": "review not found"})
			return
		}
		h.logger.Warnw("review remove failed", "email", email, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "remove failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "review removed"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
