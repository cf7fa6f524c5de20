package plans

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/fdg312/meal-hub/internal/auth"
	"github.com/fdg312/meal-hub/internal/planner"
)

// Handler handles HTTP requests for meal plans.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGenerate handles POST /v1/plans/generate
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req GeneratePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	plan, err := h.service.Generate(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err, "Failed to generate plan")
		return
	}

	writeJSON(w, http.StatusCreated, plan)
}

// HandleList handles GET /v1/plans?limit=&offset=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	resp, err := h.service.List(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list plans")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /v1/plans/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, planID, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	plan, err := h.service.Get(r.Context(), userID, planID)
	if err != nil {
		writeServiceError(w, err, "Failed to get plan")
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// HandleExport handles GET /v1/plans/{id}/export
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	userID, planID, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	payload, err := h.service.Export(r.Context(), userID, planID)
	if err != nil {
		writeServiceError(w, err, "Failed to export plan")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// HandleDelete handles DELETE /v1/plans/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, planID, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, planID); err != nil {
		writeServiceError(w, err, "Failed to delete plan")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleOptimize handles POST /v1/plans/{id}/optimize
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	userID, planID, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	plan, err := h.service.Optimize(r.Context(), userID, planID)
	if err != nil {
		writeServiceError(w, err, "Failed to optimize plan")
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

func requestIdentity(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return "", "", false
	}

	planID := r.PathValue("id")
	if planID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid plan id")
		return "", "", false
	}

	return userID, planID, true
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrPlanNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Meal plan not found")
	case errors.Is(err, ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not_found", "User not found")
	case errors.Is(err, planner.ErrInsufficientCandidates):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_candidates", err.Error())
	case errors.Is(err, ErrOptimizeRejected):
		writeError(w, http.StatusUnprocessableEntity, "optimize_rejected", err.Error())
	case errors.Is(err, ErrOptimizeUnavailable):
		writeError(w, http.StatusServiceUnavailable, "optimize_unavailable", "No plan provider is configured")
	default:
		if msg, ok := strings.CutPrefix(err.Error(), "validation failed: "); ok {
			writeError(w, http.StatusBadRequest, "invalid_request", msg)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
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
