// internal/service/ingest_service.go
package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/yiqitools/stock-alerts/internal/domain"
	"github.com/yiqitools/stock-alerts/internal/fileio"
	"github.com/yiqitools/stock-alerts/internal/ingest"
	"github.com/yiqitools/stock-alerts/internal/repository"
	"github.com/yiqitools/stock-alerts/internal/storage"
)

// IngestService runs one upload through decode, normalization and
// persistence. All collaborators are injected; the service holds no ambient
// state beyond them.
type IngestService struct {
	repo    repository.AlertsRepository
	archive storage.ObjectStorage
	now     func() time.Time
}

func NewIngestService(repo repository.AlertsRepository, archive storage.ObjectStorage, now func() time.Time) *IngestService {
	if archive == nil {
		archive = storage.NoopStorage{}
	}
	if now == nil {
		now = time.Now
	}
	return &IngestService{repo: repo, archive: archive, now: now}
}

// IngestStock normalizes a stock export and saves the latest state plus one
// snapshot row per SKU in a single transaction. The response carries the
// low-stock sample regardless of what was persisted.
func (s *IngestService) IngestStock(ctx context.Context, raw []byte, filename, contentType string) (*domain.IngestSummary, error) {
	t, err := fileio.ReadTable(bytes.NewReader(raw), filename)
	if err != nil {
		return nil, err
	}

	rows, err := ingest.NormalizeStock(t)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.repo.SaveStockIngestion(ctx, rows, filename, now); err != nil {
		return nil, fmt.Errorf("persisting stock failed: %w", err)
	}

	s.archiveRaw(ctx, "stock", filename, contentType, raw, now)

	return &domain.IngestSummary{
		Kind:           "stock",
		SourceFilename: filename,
		Rows:           len(t.Rows),
		Upserted:       len(rows),
		ReceivedAt:     now,
		LowStock:       ingest.LowStockSample(rows),
	}, nil
}

// IngestSales normalizes the Recompra sheet of a sales export.
func (s *IngestService) IngestSales(ctx context.Context, raw []byte, filename, contentType string) (*domain.IngestSummary, error) {
	t, err := fileio.ReadSheet(bytes.NewReader(raw), filename, ingest.SalesSheetName)
	if err != nil {
		return nil, err
	}

	rows, err := ingest.NormalizeSales(t)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.repo.UpsertSalesLatest(ctx, rows, now); err != nil {
		return nil, fmt.Errorf("persisting sales failed: %w", err)
	}

	s.archiveRaw(ctx, "sales", filename, contentType, raw, now)

	return &domain.IngestSummary{
		Kind:           "sales",
		SourceFilename: filename,
		Rows:           len(t.Rows),
		Upserted:       len(rows),
		ReceivedAt:     now,
	}, nil
}

// IngestInbound normalizes an inbound-plan upload.
func (s *IngestService) IngestInbound(ctx context.Context, raw []byte, filename, contentType string) (*domain.IngestSummary, error) {
	t, err := fileio.ReadTable(bytes.NewReader(raw), filename)
	if err != nil {
		return nil, err
	}

	rows, err := ingest.NormalizeInbound(t)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.repo.UpsertInboundPlans(ctx, rows, now); err != nil {
		return nil, fmt.Errorf("persisting inbound plans failed: %w", err)
	}

	s.archiveRaw(ctx, "inbound", filename, contentType, raw, now)

	return &domain.IngestSummary{
		Kind:           "inbound",
		SourceFilename: filename,
		Rows:           len(t.Rows),
		Upserted:       len(rows),
		ReceivedAt:     now,
	}, nil
}

// ListArchive lists the archived raw uploads under a key prefix, newest
// layout being ingest/{kind}/{date}/.
func (s *IngestService) ListArchive(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	return s.archive.ListObjects(ctx, prefix)
}

// archiveRaw stores the original upload bytes for audit. Best effort: a dead
// archive must not fail an ingestion that already persisted.
func (s *IngestService) archiveRaw(ctx context.Context, kind, filename, contentType string, raw []byte, now time.Time) {
	key := fmt.Sprintf("ingest/%s/%s/%s_%s", kind, now.Format("2006-01-02"), uuid.NewString(), filename)
	if err := s.archive.UploadObject(ctx, key, raw, contentType); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("raw file archive failed")
	}
}
