package nutrition

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fdg312/meal-hub/internal/auth"
)

// Handler handles HTTP requests for nutrition targets.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGetTargets handles GET /v1/nutrition/targets
func (h *Handler) HandleGetTargets(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	resp, err := h.service.GetOrDefault(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get nutrition targets")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpsertTargets handles PUT /v1/nutrition/targets
func (h *Handler) HandleUpsertTargets(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req UpsertTargetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	targets, err := h.service.Upsert(r.Context(), userID, req)
	if err != nil {
		if msg, ok := strings.CutPrefix(err.Error(), "validation failed: "); ok {
			writeError(w, http.StatusBadRequest, "invalid_request", msg)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to upsert nutrition targets")
		return
	}

	writeJSON(w, http.StatusOK, targets)
}

// HandleDeleteTargets handles DELETE /v1/nutrition/targets
func (h *Handler) HandleDeleteTargets(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	if err := h.service.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, ErrTargetsNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Nutrition targets not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete nutrition targets")
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
