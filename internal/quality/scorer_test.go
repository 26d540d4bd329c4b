package quality

import (
	"testing"
	"time"

	"github.com/DjordjeVuckovic/content-pulse/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEngagementScore(t *testing.T) {
	t.Run("zero views means zero everything", func(t *testing.T) {
		assert.Equal(t, 0.0, EngagementScore(domain.Article{}))
	})

	t.Run("rates plus view bonus", func(t *testing.T) {
		article := domain.Article{
			Views:        100,
			Likes:        50,
			BookmarkedBy: []uuid.UUID{uuid.New(), uuid.New()},
			CommentCount: 5,
		}
		// 0.5*30 + 0.02*50 + 0.05*70 + 1.0*20
		assert.InDelta(t, 39.5, EngagementScore(article), 0.001)
	})

	t.Run("caps at 100", func(t *testing.T) {
		article := domain.Article{
			Views: 10,
			Likes: 100,
		}
		assert.Equal(t, 100.0, EngagementScore(article))
	})

	t.Run("view bonus scales below 100 views", func(t *testing.T) {
		article := domain.Article{Views: 50}
		assert.InDelta(t, 10.0, EngagementScore(article), 0.001)
	})
}

func TestRecencyScore(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"hours old", 12 * time.Hour, 100},
		{"one day", 24 * time.Hour, 100},
		{"within a week", 5 * 24 * time.Hour, 90},
		{"within a month", 20 * 24 * time.Hour, 70},
		{"within a quarter", 60 * 24 * time.Hour, 50},
		{"within a year", 200 * 24 * time.Hour, 30},
		{"older than a year", 400 * 24 * time.Hour, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RecencyScore(now.Add(-tc.age), now))
		})
	}
}

func TestFollowerScore(t *testing.T) {
	assert.Equal(t, 0.0, FollowerScore(0))
	assert.Equal(t, 0.0, FollowerScore(10))
	assert.Equal(t, 10.0, FollowerScore(11))
	assert.Equal(t, 10.0, FollowerScore(100))
	assert.Equal(t, 20.0, FollowerScore(101))
	assert.Equal(t, 20.0, FollowerScore(1000))
	assert.Equal(t, 30.0, FollowerScore(1001))
}

func TestPercentileRank(t *testing.T) {
	t.Run("empty comparison is the median", func(t *testing.T) {
		assert.Equal(t, 0.5, PercentileRank(42, nil))
	})

	t.Run("ties count as at-or-below", func(t *testing.T) {
		assert.Equal(t, 0.75, PercentileRank(5, []int{1, 5, 5, 9}))
	})

	t.Run("bottom and top", func(t *testing.T) {
		assert.Equal(t, 0.0, PercentileRank(0, []int{1, 2, 3}))
		assert.Equal(t, 1.0, PercentileRank(10, []int{1, 2, 3}))
	})
}

func TestCombine(t *testing.T) {
	weights := DefaultWeights()

	t.Run("applies weights", func(t *testing.T) {
		assert.Equal(t, 30.0, Combine(weights, 100, 0, 0, 0, 0))
		assert.Equal(t, 100.0, Combine(weights, 100, 100, 100, 100, 100))
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		got := Combine(weights, 33.333, 33.333, 33.333, 33.333, 33.333)
		assert.Equal(t, 33.33, got)
	})

	t.Run("deterministic", func(t *testing.T) {
		a := Combine(weights, 72.5, 41.2, 55, 20, 90)
		b := Combine(weights, 72.5, 41.2, 55, 20, 90)
		assert.Equal(t, a, b)
	})
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		score float64
		want  domain.QualityLabel
	}{
		{100, domain.QualityExcellent},
		{80, domain.QualityExcellent},
		{79.99, domain.QualityGood},
		{65, domain.QualityGood},
		{64.99, domain.QualityAverage},
		{50, domain.QualityAverage},
		{49.99, domain.QualityPoor},
		{35, domain.QualityPoor},
		{34.99, domain.QualityVeryPoor},
		{0, domain.QualityVeryPoor},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Categorize(tc.score), "score %v", tc.score)
	}
}

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())

	bad := Weights{Content: 0.5, Engagement: 0.5, Social: 0.5}
	assert.Error(t, bad.Validate())
}
