package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DjordjeVuckovic/content-pulse/internal/apperr"
	"github.com/DjordjeVuckovic/content-pulse/internal/domain"
	"github.com/DjordjeVuckovic/content-pulse/internal/storage"
	"github.com/DjordjeVuckovic/content-pulse/internal/subscription"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const defaultSuggestionsLimit = 10

type SubscriptionRouter struct {
	e       *echo.Echo
	service *subscription.Service
}

func NewSubscriptionRouter(e *echo.Echo, service *subscription.Service) *SubscriptionRouter {
	return &SubscriptionRouter{
		e:       e,
		service: service,
	}
}

func (r *SubscriptionRouter) Bind() {
	r.e.POST("/content/subscription/flag/:id", r.flagHandler)
	r.e.GET("/content/subscription/access/:id", r.accessHandler)
	r.e.GET("/content/subscription/premium-suggestions", r.suggestionsHandler)
	r.e.POST("/content/subscription/batch-flag", r.batchFlagHandler)
}

type flagRequest struct {
	ContentAccess   domain.ContentAccess `json:"contentAccess"`
	PremiumFeatures map[string]any       `json:"premiumFeatures"`
}

func (r *SubscriptionRouter) flagHandler(c echo.Context) error {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid article id", err)
	}

	var req flagRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid flag request", err)
	}

	if err := r.service.FlagArticle(c.Request().Context(), articleID, req.ContentAccess, req.PremiumFeatures); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":       "Article flagged successfully",
		"articleId":     articleID,
		"contentAccess": req.ContentAccess,
		"status":        "success",
	})
}

func (r *SubscriptionRouter) accessHandler(c echo.Context) error {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid article id", err)
	}
	userID, err := uuid.Parse(c.QueryParam("user_id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid user_id", err)
	}

	ctx := c.Request().Context()
	info, err := r.service.CheckAccess(ctx, userID, articleID)
	if err != nil {
		return err
	}
	r.service.TrackAccess(ctx, userID, articleID, info.CanAccess)

	return c.JSON(http.StatusOK, map[string]any{
		"accessInfo": info,
		"status":     "success",
	})
}

func (r *SubscriptionRouter) suggestionsHandler(c echo.Context) error {
	userID, err := uuid.Parse(c.QueryParam("user_id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid user_id", err)
	}

	limit := defaultSuggestionsLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return apperr.NewValidation("limit must be a positive integer")
		}
		limit = parsed
	}

	suggestions, err := r.service.PremiumSuggestions(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"suggestions": suggestions,
		"count":       len(suggestions),
		"status":      "success",
	})
}

type batchFlagRequest struct {
	ContentAccess   domain.ContentAccess `json:"contentAccess"`
	MinQualityScore *float64             `json:"minQualityScore"`
	CategoryIDs     []uuid.UUID          `json:"categoryIds"`
	AuthorIDs       []uuid.UUID          `json:"authorIds"`
	CreatedAfter    *time.Time           `json:"createdAfter"`
}

func (r *SubscriptionRouter) batchFlagHandler(c echo.Context) error {
	var req batchFlagRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid batch flag request", err)
	}

	criteria := storage.FlagCriteria{
		MinQualityScore: req.MinQualityScore,
		CategoryIDs:     req.CategoryIDs,
		AuthorIDs:       req.AuthorIDs,
		CreatedAfter:    req.CreatedAfter,
	}

	result, err := r.service.BatchFlag(c.Request().Context(), criteria, req.ContentAccess)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"result": result,
		"status": "success",
	})
}
