// internal/service/digest_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yiqitools/stock-alerts/internal/cache"
	"github.com/yiqitools/stock-alerts/internal/coverage"
	"github.com/yiqitools/stock-alerts/internal/notify"
	"github.com/yiqitools/stock-alerts/internal/repository"
)

// DigestResult is what a digest run reports back to the trigger.
type DigestResult struct {
	MessageID  string    `json:"message_id,omitempty"`
	AlertCount int       `json:"alert_count"`
	Body       string    `json:"body"`
	Skipped    bool      `json:"skipped,omitempty"`
	SentAt     time.Time `json:"sent_at"`
}

// DigestService reads the joined coverage snapshot once, evaluates it in
// memory and sends exactly one notification.
type DigestService struct {
	repo         repository.AlertsRepository
	engine       *coverage.Engine
	notifier     notify.Notifier
	cache        cache.DigestCache
	dedupeWindow time.Duration
	now          func() time.Time
}

func NewDigestService(repo repository.AlertsRepository, engine *coverage.Engine, notifier notify.Notifier, digestCache cache.DigestCache, dedupeWindow time.Duration, now func() time.Time) *DigestService {
	if digestCache == nil {
		digestCache = cache.NewNoopDigestCache()
	}
	if now == nil {
		now = time.Now
	}
	return &DigestService{
		repo:         repo,
		engine:       engine,
		notifier:     notifier,
		cache:        digestCache,
		dedupeWindow: dedupeWindow,
		now:          now,
	}
}

// Last returns the most recently recorded digest, when the cache holds one.
func (s *DigestService) Last(ctx context.Context) (cache.LastDigest, bool, error) {
	return s.cache.GetLast(ctx)
}

// Run computes the coverage digest and sends it. Notification failures fail
// the run; cache failures are logged and ignored.
func (s *DigestService) Run(ctx context.Context) (*DigestResult, error) {
	inputs, err := s.repo.GetCoverageInputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading coverage inputs failed: %w", err)
	}

	alerts := s.engine.Evaluate(inputs)
	body := coverage.FormatDigest(alerts)

	if s.dedupeWindow > 0 {
		sent, err := s.cache.WasSentRecently(ctx, body)
		if err != nil {
			log.Warn().Err(err).Msg("digest dedupe check failed")
		} else if sent {
			log.Info().Int("alerts", len(alerts)).Msg("digest unchanged, skipping send")
			return &DigestResult{AlertCount: len(alerts), Body: body, Skipped: true, SentAt: s.now().UTC()}, nil
		}
	}

	msgID, err := s.notifier.SendMessage(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("digest notification failed: %w", err)
	}

	sentAt := s.now().UTC()
	last := cache.LastDigest{Body: body, MessageID: msgID, AlertCount: len(alerts), SentAt: sentAt}
	if err := s.cache.RecordSent(ctx, last, s.dedupeWindow); err != nil {
		log.Warn().Err(err).Msg("recording digest in cache failed")
	}

	log.Info().Int("alerts", len(alerts)).Str("message_id", msgID).Msg("digest sent")
	return &DigestResult{MessageID: msgID, AlertCount: len(alerts), Body: body, SentAt: sentAt}, nil
}
