package quality

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/content-pulse/internal/domain"
	"github.com/DjordjeVuckovic/content-pulse/internal/storage/inmem"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frozenNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(store *inmem.Store) *Service {
	return NewService(store, WithNow(func() time.Time { return frozenNow }))
}

func seedPublishedArticle(store *inmem.Store, authorID uuid.UUID, age time.Duration) domain.Article {
	article := domain.Article{
		ID:         uuid.New(),
		Name:       "A Reasonably Descriptive Article Title Here",
		Content:    "Plenty of words in a couple of sentences. Enough structure to score something.\n\nSecond paragraph keeps it honest.",
		Excerpt:    "A short excerpt.",
		Tags:       []string{"go", "backend", "testing"},
		CategoryID: uuid.New(),
		AuthorID:   authorID,
		Status:     domain.ArticleStatusPublished,
		Views:      120,
		Likes:      30,
		CreatedAt:  frozenNow.Add(-age),
	}
	store.SeedArticle(article)
	return article
}

func TestCalculate(t *testing.T) {
	ctx := context.Background()

	t.Run("persists record and article fields", func(t *testing.T) {
		store := inmem.NewStore()
		svc := newTestService(store)

		authorID := uuid.New()
		store.SeedUser(domain.User{ID: authorID, Username: "writer", FollowerCount: 500})
		article := seedPublishedArticle(store, authorID, 3*24*time.Hour)

		record, err := svc.Calculate(ctx, article.ID)
		require.NoError(t, err)

		assert.Equal(t, article.ID, record.ArticleID)
		assert.Equal(t, domain.QualityScoreVersion, record.Version)
		assert.Equal(t, frozenNow, record.CalculatedAt)
		assert.Equal(t, 90.0, record.RecencyScore)
		assert.Greater(t, record.OverallScore, 0.0)
		assert.LessOrEqual(t, record.OverallScore, 100.0)

		stored, err := store.FindQualityScore(ctx, article.ID)
		require.NoError(t, err)
		assert.Equal(t, record.OverallScore, stored.OverallScore)

		updated, err := store.FindArticle(ctx, article.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.QualityScore)
		assert.Equal(t, record.OverallScore, *updated.QualityScore)
		assert.Equal(t, Categorize(record.OverallScore), updated.ContentQuality)
		require.NotNil(t, updated.LastQualityUpdate)
		assert.Equal(t, frozenNow, *updated.LastQualityUpdate)
	})

	t.Run("deterministic for identical state", func(t *testing.T) {
		store := inmem.NewStore()
		svc := newTestService(store)

		article := seedPublishedArticle(store, uuid.New(), 24*time.Hour)

		first, err := svc.Calculate(ctx, article.ID)
		require.NoError(t, err)
		second, err := svc.Calculate(ctx, article.ID)
		require.NoError(t, err)

		assert.Equal(t, first.OverallScore, second.OverallScore)
		assert.Equal(t, first.ContentFeatures, second.ContentFeatures)
	})

	t.Run("unknown article fails", func(t *testing.T) {
		svc := newTestService(inmem.NewStore())
		_, err := svc.Calculate(ctx, uuid.New())
		assert.Error(t, err)
	})
}

func TestSocialScore(t *testing.T) {
	ctx := context.Background()

	t.Run("missing author and no peers yields the neutral floor", func(t *testing.T) {
		store := inmem.NewStore()
		svc := newTestService(store)

		article := domain.Article{
			ID:         uuid.New(),
			CategoryID: uuid.New(),
			AuthorID:   uuid.New(),
			CreatedAt:  frozenNow,
		}
		store.SeedArticle(article)

		score, err := svc.socialScore(ctx, article)
		require.NoError(t, err)
		assert.Equal(t, NeutralCategoryScore, score.Value)
		assert.False(t, score.Degraded)
	})

	t.Run("editorial flags and followers add up", func(t *testing.T) {
		store := inmem.NewStore()
		svc := newTestService(store)

		authorID := uuid.New()
		store.SeedUser(domain.User{ID: authorID, FollowerCount: 2000})

		article := domain.Article{
			ID:          uuid.New(),
			CategoryID:  uuid.New(),
			AuthorID:    authorID,
			IsSpotlight: true,
			IsPopular:   true,
			CreatedAt:   frozenNow,
		}
		store.SeedArticle(article)

		score, err := svc.socialScore(ctx, article)
		require.NoError(t, err)
		// 30 followers + 25 spotlight + 15 popular + 15 neutral category
		assert.Equal(t, 85.0, score.Value)
	})

	t.Run("top of category earns the full category share", func(t *testing.T) {
		store := inmem.NewStore()
		svc := newTestService(store)

		categoryID := uuid.New()
		article := domain.Article{
			ID:         uuid.New(),
			CategoryID: categoryID,
			AuthorID:   uuid.New(),
			Views:      1000,
			Likes:      500,
			CreatedAt:  frozenNow,
		}
		store.SeedArticle(article)

		for i := 0; i < 3; i++ {
			store.SeedArticle(domain.Article{
				ID:         uuid.New(),
				CategoryID: categoryID,
				AuthorID:   uuid.New(),
				Views:      10,
				Likes:      1,
				CreatedAt:  frozenNow.Add(-2 * 24 * time.Hour),
			})
		}

		score, err := svc.socialScore(ctx, article)
		require.NoError(t, err)
		assert.Equal(t, 30.0, score.Value)
		assert.False(t, score.Degraded)
	})
}

func TestAuthorCredibility(t *testing.T) {
	ctx := context.Background()

	t.Run("author with no articles gets the baseline", func(t *testing.T) {
		svc := newTestService(inmem.NewStore())
		score := svc.authorCredibility(ctx, uuid.New())
		assert.Equal(t, NewAuthorBaseline, score.Value)
		assert.False(t, score.Degraded)
	})

	t.Run("prolific author scores higher", func(t *testing.T) {
		store := inmem.NewStore()
		svc := newTestService(store)

		authorID := uuid.New()
		quality := 85.0
		for i := 0; i < 25; i++ {
			store.SeedArticle(domain.Article{
				ID:           uuid.New(),
				AuthorID:     authorID,
				Views:        600,
				Likes:        30,
				QualityScore: &quality,
				CreatedAt:    frozenNow.Add(-100 * 24 * time.Hour),
			})
		}

		score := svc.authorCredibility(ctx, authorID)
		// 20 articles-band + 20 views + 15 likes + 40 quality
		assert.Equal(t, 95.0, score.Value)
	})
}

func TestBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("isolates per-article failures", func(t *testing.T) {
		store := inmem.NewStore()
		svc := newTestService(store)

		var ids []uuid.UUID
		for i := 0; i < 3; i++ {
			ids = append(ids, seedPublishedArticle(store, uuid.New(), 24*time.Hour).ID)
		}
		ids = append(ids, uuid.New()) // not seeded

		result, err := svc.Batch(ctx, ids, 0)
		require.NoError(t, err)

		assert.Equal(t, 3, result.Processed)
		assert.Equal(t, 1, result.Errors)
		require.Len(t, result.ArticleResults, 4)
		assert.Equal(t, "error", result.ArticleResults[3].Status)
		assert.NotEmpty(t, result.ArticleResults[3].Error)
	})

	t.Run("selects stale published articles when no ids given", func(t *testing.T) {
		store := inmem.NewStore()
		svc := newTestService(store)

		seedPublishedArticle(store, uuid.New(), 24*time.Hour)
		seedPublishedArticle(store, uuid.New(), 48*time.Hour)

		draft := seedPublishedArticle(store, uuid.New(), 24*time.Hour)
		draft.Status = "draft"
		store.SeedArticle(draft)

		result, err := svc.Batch(ctx, nil, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Processed)
		assert.Equal(t, 0, result.Errors)
	})
}

func TestGetInsights(t *testing.T) {
	ctx := context.Background()

	t.Run("no data yields a message", func(t *testing.T) {
		svc := newTestService(inmem.NewStore())
		insights, err := svc.GetInsights(ctx, 30)
		require.NoError(t, err)
		assert.Equal(t, 30, insights.PeriodDays)
		assert.Zero(t, insights.TotalArticlesAnalyzed)
		assert.NotEmpty(t, insights.Message)
		assert.Nil(t, insights.AverageScores)
	})

	t.Run("aggregates averages and distribution", func(t *testing.T) {
		store := inmem.NewStore()
		svc := newTestService(store)

		scores := []float64{90, 70, 40}
		for _, overall := range scores {
			require.NoError(t, store.UpsertQualityScore(ctx, domain.QualityScoreRecord{
				ArticleID:       uuid.New(),
				OverallScore:    overall,
				ContentScore:    60,
				EngagementScore: 30,
				SocialScore:     15,
				AuthorScore:     20,
				CalculatedAt:    frozenNow.Add(-24 * time.Hour),
				Version:         domain.QualityScoreVersion,
			}))
		}

		insights, err := svc.GetInsights(ctx, 30)
		require.NoError(t, err)

		assert.Equal(t, 3, insights.TotalArticlesAnalyzed)
		require.NotNil(t, insights.AverageScores)
		assert.InDelta(t, 66.67, insights.AverageScores.Overall, 0.001)
		assert.Equal(t, 60.0, insights.AverageScores.Content)

		require.NotNil(t, insights.QualityDistribution)
		assert.Equal(t, 1, insights.QualityDistribution.Excellent)
		assert.Equal(t, 1, insights.QualityDistribution.Good)
		assert.Equal(t, 1, insights.QualityDistribution.AverageOrBelow)
	})
}

func TestGetDetails(t *testing.T) {
	ctx := context.Background()
	store := inmem.NewStore()
	svc := newTestService(store)

	article := seedPublishedArticle(store, uuid.New(), 24*time.Hour)
	record, err := svc.Calculate(ctx, article.ID)
	require.NoError(t, err)

	details, err := svc.GetDetails(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, record.OverallScore, details.OverallScore)

	_, err = svc.GetDetails(ctx, uuid.New())
	assert.Error(t, err)
}
