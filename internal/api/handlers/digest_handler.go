// internal/api/handlers/digest_handler.go
package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yiqitools/stock-alerts/internal/notify"
	"github.com/yiqitools/stock-alerts/internal/service"
)

type DigestHandler struct {
	digestService *service.DigestService
	notifier      notify.Notifier
	secret        string
}

func NewDigestHandler(digestService *service.DigestService, notifier notify.Notifier, secret string) *DigestHandler {
	return &DigestHandler{digestService: digestService, notifier: notifier, secret: secret}
}

// TriggerDigest handles POST /digest/stock?key=...
// A wrong or missing key is an authorization failure, never a silent no-op.
func (h *DigestHandler) TriggerDigest(c *gin.Context) {
	if !h.authorized(c.Query("key")) {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
		return
	}

	result, err := h.digestService.Run(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("digest run failed")
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "digest failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"message_id":  result.MessageID,
		"alert_count": result.AlertCount,
		"skipped":     result.Skipped,
		"sent_at":     result.SentAt,
	})
}

// LastDigest handles GET /digest/last?key=...
// Ops surface: reports the most recently delivered digest without resending.
func (h *DigestHandler) LastDigest(c *gin.Context) {
	if !h.authorized(c.Query("key")) {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
		return
	}

	last, ok, err := h.digestService.Last(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("reading last digest failed")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no digest recorded"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"message_id":  last.MessageID,
		"alert_count": last.AlertCount,
		"sent_at":     last.SentAt,
		"body":        last.Body,
	})
}

// NotifyTest handles GET /notify/test: pushes a fixed probe message through
// the real channel so operators can verify credentials end to end.
func (h *DigestHandler) NotifyTest(c *gin.Context) {
	msgID, err := h.notifier.SendMessage(c.Request.Context(), "🔔 stock-alerts: canal de notificación OK")
	if err != nil {
		log.Error().Err(err).Msg("test notification failed")
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "notification failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message_id": msgID})
}

func (h *DigestHandler) authorized(key string) bool {
	if h.secret == "" || key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(h.secret)) == 1
}
