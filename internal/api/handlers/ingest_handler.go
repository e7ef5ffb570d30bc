// internal/api/handlers/ingest_handler.go
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yiqitools/stock-alerts/internal/domain"
	"github.com/yiqitools/stock-alerts/internal/fileio"
	"github.com/yiqitools/stock-alerts/internal/ingest"
	"github.com/yiqitools/stock-alerts/internal/service"
)

type ingestFunc func(ctx context.Context, raw []byte, filename, contentType string) (*domain.IngestSummary, error)

type IngestHandler struct {
	ingestService *service.IngestService
	maxUploadMB   int64
}

func NewIngestHandler(ingestService *service.IngestService, maxUploadMB int) *IngestHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 64
	}
	return &IngestHandler{ingestService: ingestService, maxUploadMB: int64(maxUploadMB)}
}

// IngestStock handles POST /ingest/stock
func (h *IngestHandler) IngestStock(c *gin.Context) {
	h.handleUpload(c, h.ingestService.IngestStock)
}

// IngestSales handles POST /ingest/sales
func (h *IngestHandler) IngestSales(c *gin.Context) {
	h.handleUpload(c, h.ingestService.IngestSales)
}

// IngestInbound handles POST /ingest/inbound
func (h *IngestHandler) IngestInbound(c *gin.Context) {
	h.handleUpload(c, h.ingestService.IngestInbound)
}

// ListArchive handles GET /ingest/archive
func (h *IngestHandler) ListArchive(c *gin.Context) {
	objects, err := h.ingestService.ListArchive(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		log.Error().Err(err).Msg("archive listing failed")
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "archive unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": len(objects), "objects": objects})
}

func (h *IngestHandler) handleUpload(c *gin.Context, run ingestFunc) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart file with key 'file' is required"})
		return
	}
	if fh.Size > h.maxUploadMB<<20 {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open uploaded file"})
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, (h.maxUploadMB<<20)+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}

	summary, err := run(c.Request.Context(), raw, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		respondIngestError(c, fh.Filename, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "summary": summary})
}

// respondIngestError maps normalization failures onto structured 4xx results
// and keeps persistence trouble a 500. Schema failures echo the observed
// header list so the operator can see what the export actually contained.
func respondIngestError(c *gin.Context, filename string, err error) {
	var schemaErr *ingest.SchemaError
	if errors.As(err, &schemaErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"ok":      false,
			"error":   "schema",
			"missing": schemaErr.Missing,
			"headers": schemaErr.Headers,
		})
		return
	}

	var sheetErr *fileio.SheetNotFoundError
	if errors.As(err, &sheetErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"ok":     false,
			"error":  "sheet_not_found",
			"sheet":  sheetErr.Sheet,
			"sheets": sheetErr.Available,
		})
		return
	}

	var parseErr *fileio.ParseError
	if errors.As(err, &parseErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"ok":    false,
			"error": "parse",
			"file":  parseErr.Filename,
		})
		return
	}

	log.Error().Err(err).Str("filename", filename).Msg("ingestion failed")
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal"})
}
