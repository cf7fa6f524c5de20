package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/meal-hub/internal/storage"
	"github.com/google/uuid"
)

type reportsStorage struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]*storage.ReportMeta
}

func newReportsStorage() *reportsStorage {
	return &reportsStorage{
		reports: make(map[uuid.UUID]*storage.ReportMeta),
	}
}

func (s *reportsStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now

	stored := *report
	stored.Data = append([]byte(nil), report.Data...)
	s.reports[report.ID] = &stored

	return nil
}

func (s *reportsStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	copied := *report
	copied.Data = append([]byte(nil), report.Data...)

	return &copied, nil
}

func (s *reportsStorage) ListReports(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []storage.ReportMeta
	for _, r := range s.reports {
		if r.OwnerUserID == ownerUserID {
			copied := *r
			copied.Data = nil // bodies are fetched one by one
			filtered = append(filtered, copied)
		}
	}

	// Newest first
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	return paginate(filtered, limit, offset), nil
}

func (s *reportsStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[id]; !ok {
		return storage.ErrNotFound
	}

	delete(s.reports, id)

	return nil
}
