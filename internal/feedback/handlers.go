package feedback

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fdg312/meal-hub/internal/auth"
)

// Handler handles HTTP requests for recipe feedback.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleUpsert handles POST /v1/recipes/{id}/feedback
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	userID, recipeID, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	var req UpsertFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	record, err := h.service.Upsert(r.Context(), userID, recipeID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to record feedback")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// HandleMarkCooked handles POST /v1/recipes/{id}/cooked
func (h *Handler) HandleMarkCooked(w http.ResponseWriter, r *http.Request) {
	userID, recipeID, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	record, err := h.service.MarkCooked(r.Context(), userID, recipeID)
	if err != nil {
		writeServiceError(w, err, "Failed to mark recipe cooked")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// HandleMarkSkipped handles POST /v1/recipes/{id}/skipped
func (h *Handler) HandleMarkSkipped(w http.ResponseWriter, r *http.Request) {
	userID, recipeID, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	record, err := h.service.MarkSkipped(r.Context(), userID, recipeID)
	if err != nil {
		writeServiceError(w, err, "Failed to mark recipe skipped")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// HandleList handles GET /v1/feedback
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	resp, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list feedback")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func requestIdentity(w http.ResponseWriter, r *http.Request) (string, int64, bool) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return "", 0, false
	}

	recipeID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || recipeID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid recipe id")
		return "", 0, false
	}

	return userID, recipeID, true
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, ErrRecipeNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "Recipe not found")
		return
	}
	if msg, ok := strings.CutPrefix(err.Error(), "validation failed: "); ok {
		writeError(w, http.StatusBadRequest, "invalid_request", msg)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", fallback)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
