package router

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/DjordjeVuckovic/content-pulse/internal/apperr"
	"github.com/DjordjeVuckovic/content-pulse/internal/quality"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// backgroundTimeout bounds detached calculations fired from handlers.
const backgroundTimeout = 5 * time.Minute

type QualityRouter struct {
	e       *echo.Echo
	service *quality.Service
}

func NewQualityRouter(e *echo.Echo, service *quality.Service) *QualityRouter {
	return &QualityRouter{
		e:       e,
		service: service,
	}
}

func (r *QualityRouter) Bind() {
	r.e.POST("/content/quality/calculate/:id", r.calculateHandler)
	r.e.POST("/content/quality/batch-calculate", r.batchCalculateHandler)
	r.e.GET("/content/quality/insights", r.insightsHandler)
	r.e.GET("/content/quality/:id", r.detailsHandler)
}

// calculateHandler kicks off a single-article calculation in the
// background and returns immediately: scoring runs several store
// lookups and should not block the request.
func (r *QualityRouter) calculateHandler(c echo.Context) error {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid article id", err)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		if _, err := r.service.Calculate(ctx, articleID); err != nil {
			slog.Error("background quality calculation failed", "articleId", articleID, "error", err)
		}
	}()

	return c.JSON(http.StatusAccepted, map[string]any{
		"message":   "Quality calculation started",
		"articleId": articleID,
		"status":    "processing",
	})
}

type batchCalculateRequest struct {
	ArticleIDs []uuid.UUID `json:"articleIds"`
	Limit      int         `json:"limit"`
}

func (r *QualityRouter) batchCalculateHandler(c echo.Context) error {
	var req batchCalculateRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid batch request", err)
	}
	if req.Limit <= 0 {
		req.Limit = quality.DefaultBatchLimit
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		result, err := r.service.Batch(ctx, req.ArticleIDs, req.Limit)
		if err != nil {
			slog.Error("background batch calculation failed", "error", err)
			return
		}
		slog.Info("batch quality calculation finished",
			"processed", result.Processed, "errors", result.Errors)
	}()

	articleCount := strconv.Itoa(len(req.ArticleIDs))
	if len(req.ArticleIDs) == 0 {
		articleCount = "up to " + strconv.Itoa(req.Limit)
	}

	return c.JSON(http.StatusAccepted, map[string]any{
		"message":      "Batch quality calculation started",
		"articleCount": articleCount,
		"status":       "processing",
	})
}

func (r *QualityRouter) insightsHandler(c echo.Context) error {
	days := quality.DefaultInsightsDays
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return apperr.NewValidation("days must be a positive integer")
		}
		days = parsed
	}

	insights, err := r.service.GetInsights(c.Request().Context(), days)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"insights": insights,
		"status":   "success",
	})
}

func (r *QualityRouter) detailsHandler(c echo.Context) error {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid article id", err)
	}

	details, err := r.service.GetDetails(c.Request().Context(), articleID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"qualityDetails": details,
		"status":         "success",
	})
}
