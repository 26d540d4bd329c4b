package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DjordjeVuckovic/content-pulse/internal/apperr"
	"github.com/DjordjeVuckovic/content-pulse/internal/domain"
	"github.com/DjordjeVuckovic/content-pulse/internal/storage/inmem"
	"github.com/DjordjeVuckovic/content-pulse/internal/subscription"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubscriptionTestServer() (*echo.Echo, *inmem.Store) {
	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()

	store := inmem.NewStore()
	svc := subscription.NewService(store, inmem.NewActivityTracker())
	NewSubscriptionRouter(e, svc).Bind()
	return e, store
}

func seedPremiumArticles(store *inmem.Store, n int) {
	for i := 0; i < n; i++ {
		score := float64(50 + i)
		store.SeedArticle(domain.Article{
			ID:               uuid.New(),
			Name:             fmt.Sprintf("Premium %d", i),
			CategoryID:       uuid.New(),
			AuthorID:         uuid.New(),
			Status:           domain.ArticleStatusPublished,
			ContentAccess:    domain.AccessPremium,
			IsPremiumContent: true,
			QualityScore:     &score,
		})
	}
}

func TestSuggestionsHandler(t *testing.T) {
	t.Run("defaults to ten suggestions", func(t *testing.T) {
		e, store := newSubscriptionTestServer()
		seedPremiumArticles(store, 15)

		req := httptest.NewRequest(http.MethodGet,
			"/content/subscription/premium-suggestions?user_id="+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Suggestions []subscription.Suggestion `json:"suggestions"`
			Count       int                       `json:"count"`
			Status      string                    `json:"status"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 10, body.Count)
		assert.Len(t, body.Suggestions, 10)
		assert.Equal(t, "success", body.Status)
	})

	t.Run("explicit limit overrides default", func(t *testing.T) {
		e, store := newSubscriptionTestServer()
		seedPremiumArticles(store, 15)

		req := httptest.NewRequest(http.MethodGet,
			"/content/subscription/premium-suggestions?user_id="+uuid.NewString()+"&limit=3", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 3, body.Count)
	})

	t.Run("rejects non-positive limit", func(t *testing.T) {
		e, _ := newSubscriptionTestServer()

		req := httptest.NewRequest(http.MethodGet,
			"/content/subscription/premium-suggestions?user_id="+uuid.NewString()+"&limit=0", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed user id", func(t *testing.T) {
		e, _ := newSubscriptionTestServer()

		req := httptest.NewRequest(http.MethodGet,
			"/content/subscription/premium-suggestions?user_id=not-a-uuid", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
