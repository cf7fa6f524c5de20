package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fdg312/meal-hub/internal/auth"
	"github.com/google/uuid"
)

// Handlers handles HTTP requests for reports.
type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleCreate handles POST /v1/reports
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	report, err := h.service.CreateReport(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPlanNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Meal plan not found")
		default:
			if msg, ok := strings.CutPrefix(err.Error(), "validation failed: "); ok {
				writeError(w, http.StatusBadRequest, "invalid_request", msg)
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create report")
		}
		return
	}

	downloadURL, err := h.service.GetReportDownloadURL(r.Context(), userID, report.ID, getBaseURL(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate download URL")
		return
	}

	writeJSON(w, http.StatusCreated, toDTO(report, downloadURL))
}

// HandleList handles GET /v1/reports?limit=&offset=
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	offset := 0
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o >= 0 {
		offset = o
	}

	reports, err := h.service.ListReports(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list reports")
		return
	}

	baseURL := getBaseURL(r)
	dtos := make([]ReportDTO, len(reports))
	for i := range reports {
		downloadURL, _ := h.service.GetReportDownloadURL(r.Context(), userID, reports[i].ID, baseURL)
		dtos[i] = toDTO(&reports[i], downloadURL)
	}

	writeJSON(w, http.StatusOK, ReportsResponse{Reports: dtos})
}

// HandleDownload handles GET /v1/reports/{id}/download
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	userID, reportID, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	report, err := h.service.GetReport(r.Context(), userID, reportID)
	if err != nil {
		writeReportError(w, err, "Failed to get report")
		return
	}

	if h.service.localMode {
		data, contentType, err := h.service.GetReportData(r.Context(), userID, reportID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to read report")
			return
		}

		filename := fmt.Sprintf("meal_plan_%s.%s", report.PlanID, report.Format)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Write(data)
		return
	}

	downloadURL, err := h.service.GetReportDownloadURL(r.Context(), userID, reportID, getBaseURL(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate download URL")
		return
	}
	http.Redirect(w, r, downloadURL, http.StatusFound)
}

// HandleDelete handles DELETE /v1/reports/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, reportID, ok := requestIdentity(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteReport(r.Context(), userID, reportID); err != nil {
		writeReportError(w, err, "Failed to delete report")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func requestIdentity(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, bool) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return "", uuid.Nil, false
	}

	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid report id")
		return "", uuid.Nil, false
	}

	return userID, reportID, true
}

func toDTO(report *Report, downloadURL string) ReportDTO {
	return ReportDTO{
		ID:          report.ID,
		PlanID:      report.PlanID,
		Format:      report.Format,
		DownloadURL: downloadURL,
		SizeBytes:   report.SizeBytes,
		Status:      report.Status,
		CreatedAt:   report.CreatedAt,
	}
}

func writeReportError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, ErrReportNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "Report not found")
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

func getBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}
