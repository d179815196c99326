package favorite

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/chefonex/service-api-core/internal/auth"
)

// Handler exposes HTTP endpoints for favorites.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db, nil, nil), logger: logger}
}

// AddRequest request body for favoriting a meal.
type AddRequest struct {
	MealID string `json:"mealId"`
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
	f, err := h.svc.Add(r.Context(), email, req.MealID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyFavorited):
			h.writeJSON(w, http.StatusOK, map[string]string{"message": "Already favorited"})
		case errors.Is(err, ErrMealNotFound):
			h.writeJSON(w, http.StatusNotFound, map[string]string{"message": "meal not found"})
		default:
			h.logger.Warnw("favorite add failed", "email", email, "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "add failed"})
		}
		return
	}
	h.writeJSON(w, http.StatusCreated, f)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.EmailFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized Access."})
		return
	}
	favorites, err := h.svc.ListByUser(r.Context(), email)
	if err != nil {
		h.logger.Warnw("favorite list failed", "email", email, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "list failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, favorites)
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	email, ok := auth.EmailFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized Access."})
		return
	}
	if err := h.svc.Remove(r.Context(), r.PathValue("id"), email); err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"message": "favorite not found"})
			return
		}
		h.logger.Warnw("favorite remove failed", "email", email, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "remove failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "favorite removed"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
