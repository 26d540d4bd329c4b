package quality

import (
	"math"
	"time"

	"github.com/DjordjeVuckovic/content-pulse/internal/domain"
	"github.com/DjordjeVuckovic/content-pulse/pkg/utils"
)

const (
	// NeutralCategoryScore substitutes the category-performance
	// sub-score when no peer data exists or the lookup fails.
	NeutralCategoryScore = 15.0

	// NewAuthorBaseline substitutes the author credibility score for
	// authors with no articles or failed lookups.
	NewAuthorBaseline = 20.0

	maxCategoryScore = 30.0
)

// SubScore pairs a sub-score value with a confidence flag. Degraded
// means a neutral fallback constant was substituted because comparison
// data was unavailable; the overall score is still produced.
type SubScore struct {
	Value    float64
	Degraded bool
}

// EngagementScore computes a 0-100 score from interaction counts.
// With zero views every rate is zero, so the score reduces to the view
// bonus alone.
func EngagementScore(article domain.Article) float64 {
	views := article.Views
	likes := article.Likes
	bookmarks := len(article.BookmarkedBy)
	comments := article.CommentCount

	var likeRate, bookmarkRate, commentRate float64
	if views > 0 {
		likeRate = float64(likes) / float64(views)
		bookmarkRate = float64(bookmarks) / float64(views)
		commentRate = float64(comments) / float64(views)
	}

	score := likeRate*30 +
		bookmarkRate*50 +
		commentRate*70 +
		math.Min(float64(views)/100, 1)*20

	// Rates can push the raw sum past 100, so the cap is load-bearing.
	return math.Min(score, 100)
}

// RecencyScore is a step function of article age in whole days.
func RecencyScore(createdAt, now time.Time) float64 {
	ageDays := int(now.Sub(createdAt).Hours() / 24)
	switch {
	case ageDays <= 1:
		return 100
	case ageDays <= 7:
		return 90
	case ageDays <= 30:
		return 70
	case ageDays <= 90:
		return 50
	case ageDays <= 365:
		return 30
	default:
		return 20
	}
}

// FollowerScore is the follower-count contribution to the social score.
func FollowerScore(followerCount int) float64 {
	switch {
	case followerCount > 1000:
		return 30
	case followerCount > 100:
		return 20
	case followerCount > 10:
		return 10
	default:
		return 0
	}
}

// PercentileRank is the fraction of comparison values at or below value.
// Ties count into the "at or below" bucket.
func PercentileRank(value int, comparison []int) float64 {
	if len(comparison) == 0 {
		return 0.5
	}
	rank := 0
	for _, v := range comparison {
		if v <= value {
			rank++
		}
	}
	return float64(rank) / float64(len(comparison))
}

// authorCredibilityFromStats maps lifetime author aggregates to 0-100.
func authorCredibilityFromStats(articleCount, totalViews, totalLikes int, avgQuality *float64) float64 {
	score := 0.0

	// Article count (0-25)
	switch {
	case articleCount > 50:
		score += 25
	case articleCount > 20:
		score += 20
	case articleCount > 10:
		score += 15
	case articleCount > 5:
		score += 10
	case articleCount > 0:
		score += 5
	}

	// Performance (0-35)
	switch {
	case totalViews > 10000:
		score += 20
	case totalViews > 1000:
		score += 15
	case totalViews > 100:
		score += 10
	}
	switch {
	case totalLikes > 500:
		score += 15
	case totalLikes > 100:
		score += 10
	case totalLikes > 20:
		score += 5
	}

	// Average quality (0-40), neutral 50 when no article is scored yet.
	avg := 50.0
	if avgQuality != nil {
		avg = *avgQuality
	}
	switch {
	case avg > 80:
		score += 40
	case avg > 70:
		score += 30
	case avg > 60:
		score += 20
	case avg > 50:
		score += 10
	}

	return math.Min(score, 100)
}

// Combine folds the five sub-scores into the overall score, rounded to
// two decimals and capped at 100.
func Combine(weights Weights, content, engagement, social, author, recency float64) float64 {
	score := content*weights.Content +
		engagement*weights.Engagement +
		social*weights.Social +
		author*weights.Author +
		recency*weights.Recency
	return math.Min(utils.RoundDecimal(score, 2), 100)
}

// Categorize buckets an overall score into its editorial label.
// Boundaries are inclusive on the lower edge: 80 is excellent, not good.
func Categorize(score float64) domain.QualityLabel {
	switch {
	case score >= 80:
		return domain.QualityExcellent
	case score >= 65:
		return domain.QualityGood
	case score >= 50:
		return domain.QualityAverage
	case score >= 35:
		return domain.QualityPoor
	default:
		return domain.QualityVeryPoor
	}
}
