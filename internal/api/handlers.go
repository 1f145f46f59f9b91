package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trendwatch/internal/domain"
	"trendwatch/internal/service"
)

const defaultContentLimit = 50

// TrendService is the slice of the collection service the HTTP layer needs.
type TrendService interface {
	CollectTrendingContents(ctx context.Context, country, sourcePreference string) (*domain.CollectionReport, error)
	GetPlatformKeywords(ctx context.Context, country string) (*domain.PlatformKeywords, error)
	GetTodaysContents(ctx context.Context, country string, limit int) (*domain.TodaysContents, error)
}

type Handler struct {
	trends TrendService
	logger *slog.Logger
}

func NewHandler(trends TrendService, logger *slog.Logger) *Handler {
	return &Handler{
		trends: trends,
		logger: logger,
	}
}

// CollectTrending runs a full collection for one country. The optional source
// query pins the keyword source instead of walking the fallback chain.
func (h *Handler) CollectTrending(c *gin.Context) {
	country := c.DefaultQuery("country", "KR")
	source := c.DefaultQuery("source", service.SourceAuto)

	report, err := h.trends.CollectTrendingContents(c.Request.Context(), country, source)
	if err != nil {
		h.logger.Error("collection failed", "country", country, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) GetTrendingContents(c *gin.Context) {
	country := c.DefaultQuery("country", "KR")

	limit := defaultContentLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	contents, err := h.trends.GetTodaysContents(c.Request.Context(), country, limit)
	if err != nil {
		h.logger.Error("fetch contents failed", "country", country, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"country":  country,
		"videos":   contents.Videos,
		"articles": contents.Articles,
	})
}

func (h *Handler) GetPlatformKeywords(c *gin.Context) {
	country := c.DefaultQuery("country", "KR")

	keywords, err := h.trends.GetPlatformKeywords(c.Request.Context(), country)
	if err != nil {
		h.logger.Error("platform keywords failed", "country", country, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, keywords)
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
