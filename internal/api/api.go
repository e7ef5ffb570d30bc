// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yiqitools/stock-alerts/internal/api/handlers"
	"github.com/yiqitools/stock-alerts/internal/api/middleware"
	"github.com/yiqitools/stock-alerts/internal/config"
)

type Handlers struct {
	Ingest *handlers.IngestHandler
	Digest *handlers.DigestHandler
}

func NewRouter(h *Handlers, cfg *config.ServerConfig) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if normalized, allowAll := normalizeAllowedOrigins(cfg.AllowedOrigins); allowAll {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	} else if len(normalized) > 0 {
		corsConfig.AllowOrigins = normalized
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if h != nil {
		if h.Digest != nil {
			router.GET("/notify/test", h.Digest.NotifyTest)
			router.POST("/digest/stock", h.Digest.TriggerDigest)
			router.GET("/digest/last", h.Digest.LastDigest)
		}
		if h.Ingest != nil {
			ingestGroup := router.Group("/ingest")
			{
				ingestGroup.POST("/stock", h.Ingest.IngestStock)
				ingestGroup.POST("/sales", h.Ingest.IngestSales)
				ingestGroup.POST("/inbound", h.Ingest.IngestInbound)
				ingestGroup.GET("/archive", h.Ingest.ListArchive)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var parsed []string
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				return nil, true
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, false
}
