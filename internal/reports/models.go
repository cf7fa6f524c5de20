package reports

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Report is a generated plan report with its metadata.
type Report struct {
	ID        uuid.UUID
	PlanID    string
	Format    string // "pdf"
	ObjectKey *string
	SizeBytes int64
	Status    string // "ready" or "failed"
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      []byte // only populated in local mode
}

// CreateReportRequest is the request body for POST /v1/reports.
type CreateReportRequest struct {
	PlanID string `json:"plan_id"`
	Format string `json:"format,omitempty"` // defaults to "pdf"
}

// Validate validates the create request.
func (r *CreateReportRequest) Validate() error {
	if r.PlanID == "" {
		return fmt.Errorf("plan_id is required")
	}
	if r.Format != "" && r.Format != FormatPDF {
		return fmt.Errorf("format must be 'pdf'")
	}
	return nil
}

// ReportDTO is the response representation of a report.
type ReportDTO struct {
	ID          uuid.UUID `json:"id"`
	PlanID      string    `json:"plan_id"`
	Format      string    `json:"format"`
	DownloadURL string    `json:"download_url"`
	SizeBytes   int64     `json:"size_bytes"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportsResponse is the list response.
type ReportsResponse struct {
	Reports []ReportDTO `json:"reports"`
}

// Constants for validation
const (
	FormatPDF = "pdf"

	StatusReady  = "ready"
	StatusFailed = "failed"
)
