package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yiqitools/stock-alerts/internal/cache"
	"github.com/yiqitools/stock-alerts/internal/coverage"
	"github.com/yiqitools/stock-alerts/internal/domain"
	"github.com/yiqitools/stock-alerts/internal/ingest"
)

type fakeRepo struct {
	inputs    []domain.CoverageInput
	inputsErr error

	stockRows   []ingest.StockRow
	snapshotSrc string
	stockSaves  int
	salesRows   []ingest.SalesRow
	inboundRows []ingest.InboundRow

	saveStockErr error
}

func (f *fakeRepo) SaveStockIngestion(_ context.Context, rows []ingest.StockRow, src string, _ time.Time) error {
	if f.saveStockErr != nil {
		return f.saveStockErr
	}
	f.stockRows = rows
	f.snapshotSrc = src
	f.stockSaves++
	return nil
}

func (f *fakeRepo) UpsertSalesLatest(_ context.Context, rows []ingest.SalesRow, _ time.Time) error {
	f.salesRows = rows
	return nil
}

func (f *fakeRepo) UpsertInboundPlans(_ context.Context, rows []ingest.InboundRow, _ time.Time) error {
	f.inboundRows = rows
	return nil
}

func (f *fakeRepo) GetCoverageInputs(context.Context) ([]domain.CoverageInput, error) {
	return f.inputs, f.inputsErr
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) SendMessage(_ context.Context, body string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, body)
	return "42", nil
}

type fakeDigestCache struct {
	recorded   []cache.LastDigest
	sentBefore bool
}

func (f *fakeDigestCache) RecordSent(_ context.Context, d cache.LastDigest, _ time.Duration) error {
	f.recorded = append(f.recorded, d)
	return nil
}

func (f *fakeDigestCache) GetLast(context.Context) (cache.LastDigest, bool, error) {
	if len(f.recorded) == 0 {
		return cache.LastDigest{}, false, nil
	}
	return f.recorded[len(f.recorded)-1], true, nil
}

func (f *fakeDigestCache) WasSentRecently(context.Context, string) (bool, error) {
	return f.sentBefore, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
}

func TestDigestService_Run(t *testing.T) {
	repo := &fakeRepo{inputs: []domain.CoverageInput{
		{SKU: "A-1", Stock: 10, Sales30d: 120},
		{SKU: "A-2", Stock: 500, Sales30d: 30},
	}}
	notifier := &fakeNotifier{}
	digestCache := &fakeDigestCache{}
	engine := coverage.NewEngine(coverage.DefaultTargetDays, fixedNow)

	svc := NewDigestService(repo, engine, notifier, digestCache, time.Hour, fixedNow)
	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AlertCount != 1 {
		t.Errorf("AlertCount = %d, want 1", res.AlertCount)
	}
	if res.MessageID != "42" {
		t.Errorf("MessageID = %q", res.MessageID)
	}
	if len(notifier.sent) != 1 || !strings.Contains(notifier.sent[0], "A-1") {
		t.Errorf("sent = %v", notifier.sent)
	}
	if len(digestCache.recorded) != 1 || digestCache.recorded[0].MessageID != "42" {
		t.Errorf("recorded = %+v", digestCache.recorded)
	}
}

func TestDigestService_Run_NotifierFailure(t *testing.T) {
	repo := &fakeRepo{inputs: []domain.CoverageInput{{SKU: "A-1", Stock: 1, Sales30d: 120}}}
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	digestCache := &fakeDigestCache{}
	engine := coverage.NewEngine(coverage.DefaultTargetDays, fixedNow)

	svc := NewDigestService(repo, engine, notifier, digestCache, 0, fixedNow)
	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected error when notification fails")
	}
	if len(digestCache.recorded) != 0 {
		t.Error("failed send must not be recorded")
	}
}

func TestDigestService_Run_DedupeSkips(t *testing.T) {
	repo := &fakeRepo{inputs: []domain.CoverageInput{{SKU: "A-1", Stock: 1, Sales30d: 120}}}
	notifier := &fakeNotifier{}
	digestCache := &fakeDigestCache{sentBefore: true}
	engine := coverage.NewEngine(coverage.DefaultTargetDays, fixedNow)

	svc := NewDigestService(repo, engine, notifier, digestCache, time.Hour, fixedNow)
	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Skipped {
		t.Error("Skipped = false, want true")
	}
	if len(notifier.sent) != 0 {
		t.Errorf("sent = %v, want none", notifier.sent)
	}
}

func TestDigestService_Last(t *testing.T) {
	repo := &fakeRepo{}
	notifier := &fakeNotifier{}
	digestCache := &fakeDigestCache{}
	engine := coverage.NewEngine(coverage.DefaultTargetDays, fixedNow)
	svc := NewDigestService(repo, engine, notifier, digestCache, 0, fixedNow)

	if _, ok, err := svc.Last(context.Background()); err != nil || ok {
		t.Fatalf("Last on empty cache = (ok=%v, err=%v), want none", ok, err)
	}

	digestCache.recorded = append(digestCache.recorded, cache.LastDigest{
		Body: "msg", MessageID: "7", AlertCount: 3, SentAt: fixedNow(),
	})
	last, ok, err := svc.Last(context.Background())
	if err != nil || !ok {
		t.Fatalf("Last = (ok=%v, err=%v), want recorded digest", ok, err)
	}
	if last.MessageID != "7" || last.AlertCount != 3 {
		t.Errorf("last = %+v", last)
	}
}

func TestDigestService_Run_RepoFailure(t *testing.T) {
	repo := &fakeRepo{inputsErr: errors.New("db down")}
	notifier := &fakeNotifier{}
	engine := coverage.NewEngine(coverage.DefaultTargetDays, fixedNow)

	svc := NewDigestService(repo, engine, notifier, nil, 0, fixedNow)
	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected error when reading coverage inputs fails")
	}
	if len(notifier.sent) != 0 {
		t.Error("nothing must be sent when the read fails")
	}
}
