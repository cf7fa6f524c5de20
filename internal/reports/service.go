package reports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/fdg312/meal-hub/internal/blob"
	"github.com/fdg312/meal-hub/internal/plans"
	"github.com/fdg312/meal-hub/internal/storage"
	"github.com/google/uuid"
)

// Errors
var (
	ErrPlanNotFound   = errors.New("meal plan not found")
	ErrReportNotFound = errors.New("report not found")
)

// Service generates and manages plan reports. With no blob store
// configured it runs in local mode and keeps report bodies in the
// metadata storage.
type Service struct {
	reportsStorage  storage.ReportsStorage
	plans           *plans.Service
	generator       *Generator
	blobStore       blob.Store
	presignTTL      int
	localMode       bool
	publicBaseURL   string
	preferPublicURL bool
}

func NewService(
	reportsStorage storage.ReportsStorage,
	plansService *plans.Service,
	generator *Generator,
	blobStore blob.Store,
	presignTTL int,
	publicBaseURL string,
	preferPublicURL bool,
) *Service {
	return &Service{
		reportsStorage:  reportsStorage,
		plans:           plansService,
		generator:       generator,
		blobStore:       blobStore,
		presignTTL:      presignTTL,
		localMode:       blobStore == nil,
		publicBaseURL:   publicBaseURL,
		preferPublicURL: preferPublicURL,
	}
}

// CreateReport renders a PDF of one of the user's plans and stores it.
func (s *Service) CreateReport(ctx context.Context, userID string, req CreateReportRequest) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Get enforces ownership
	plan, err := s.plans.Get(ctx, userID, req.PlanID)
	if err != nil {
		if errors.Is(err, plans.ErrPlanNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	data, err := s.generator.GeneratePDF(ctx, plan.Plan)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	meta := &storage.ReportMeta{
		OwnerUserID: userID,
		PlanID:      req.PlanID,
		Format:      FormatPDF,
		SizeBytes:   int64(len(data)),
		Status:      StatusReady,
	}

	if s.localMode {
		meta.Data = data
	} else {
		objectKey := fmt.Sprintf("reports/%s/%s_%s.pdf", userID, req.PlanID, uuid.New().String())
		if _, err := s.blobStore.PutObject(ctx, objectKey, data, "application/pdf"); err != nil {
			return nil, fmt.Errorf("failed to upload report: %w", err)
		}
		meta.ObjectKey = &objectKey
	}

	if err := s.reportsStorage.CreateReport(ctx, meta); err != nil {
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}

	return toReport(meta), nil
}

// GetReport retrieves a report owned by the user.
func (s *Service) GetReport(ctx context.Context, userID string, id uuid.UUID) (*Report, error) {
	meta, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toReport(meta), nil
}

// ListReports lists the user's reports, newest first.
func (s *Service) ListReports(ctx context.Context, userID string, limit, offset int) ([]Report, error) {
	metaList, err := s.reportsStorage.ListReports(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]Report, len(metaList))
	for i := range metaList {
		reports[i] = *toReport(&metaList[i])
	}
	return reports, nil
}

// DeleteReport deletes a report and its stored body.
func (s *Service) DeleteReport(ctx context.Context, userID string, id uuid.UUID) error {
	meta, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if !s.localMode && meta.ObjectKey != nil {
		if err := s.blobStore.DeleteObject(ctx, *meta.ObjectKey); err != nil {
			// metadata deletion matters more than the orphaned object
			log.Printf("WARNING: failed to delete report object %s: %v", *meta.ObjectKey, err)
		}
	}

	if err := s.reportsStorage.DeleteReport(ctx, id); err != nil {
		return fmt.Errorf("failed to delete report metadata: %w", err)
	}
	return nil
}

// GetReportDownloadURL builds a download URL for a report: a direct
// endpoint in local mode, a public or presigned object URL otherwise.
func (s *Service) GetReportDownloadURL(ctx context.Context, userID string, id uuid.UUID, baseURL string) (string, error) {
	meta, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return "", err
	}

	if s.localMode {
		return fmt.Sprintf("%s/v1/reports/%s/download", strings.TrimSuffix(baseURL, "/"), id.String()), nil
	}

	if meta.ObjectKey == nil {
		return "", fmt.Errorf("object key is missing")
	}

	if s.preferPublicURL && s.publicBaseURL != "" {
		return strings.TrimSuffix(s.publicBaseURL, "/") + "/" + *meta.ObjectKey, nil
	}

	presignedURL, err := s.blobStore.PresignGet(ctx, *meta.ObjectKey, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return presignedURL, nil
}

// GetReportData returns the raw report body for direct download.
func (s *Service) GetReportData(ctx context.Context, userID string, id uuid.UUID) ([]byte, string, error) {
	meta, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}

	if s.localMode {
		return meta.Data, "application/pdf", nil
	}

	if meta.ObjectKey == nil {
		return nil, "", fmt.Errorf("object key is missing")
	}
	data, err := s.blobStore.GetObject(ctx, *meta.ObjectKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch report object: %w", err)
	}
	return data, "application/pdf", nil
}

func (s *Service) getOwned(ctx context.Context, userID string, id uuid.UUID) (*storage.ReportMeta, error) {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if meta.OwnerUserID != userID {
		return nil, ErrReportNotFound
	}
	return meta, nil
}

func toReport(meta *storage.ReportMeta) *Report {
	return &Report{
		ID:        meta.ID,
		PlanID:    meta.PlanID,
		Format:    meta.Format,
		ObjectKey: meta.ObjectKey,
		SizeBytes: meta.SizeBytes,
		Status:    meta.Status,
		Error:     meta.Error,
		CreatedAt: meta.CreatedAt,
		UpdatedAt: meta.UpdatedAt,
		Data:      meta.Data,
	}
}
