package quality

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/content-pulse/internal/apperr"
	"github.com/DjordjeVuckovic/content-pulse/internal/domain"
	"github.com/DjordjeVuckovic/content-pulse/internal/preprocess"
	"github.com/DjordjeVuckovic/content-pulse/internal/storage"
	"github.com/DjordjeVuckovic/content-pulse/pkg/utils"
	"github.com/google/uuid"
)

const (
	categoryPeerWindow = 30 * 24 * time.Hour
	staleScoreAge      = 7 * 24 * time.Hour

	DefaultBatchLimit   = 100
	DefaultInsightsDays = 30
)

// Service orchestrates the five scorers for one article, persists the
// result and exposes batch and insight operations. The store is the
// only collaborator; every call is a synchronous sequence of lookups
// with no cross-article write contention.
type Service struct {
	store   storage.Store
	pre     *preprocess.Preprocessor
	weights Weights
	now     func() time.Time
}

type Option func(*Service)

// WithNow injects the clock, so recency decay is testable.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithWeights(weights Weights) Option {
	return func(s *Service) { s.weights = weights }
}

func NewService(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		pre:     preprocess.New(),
		weights: DefaultWeights(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calculate recomputes the full quality record for one article and
// upserts it. The computation is deterministic given the article state
// and the injected clock, so concurrent recomputation of the same id is
// benign: last writer wins.
func (s *Service) Calculate(ctx context.Context, articleID uuid.UUID) (*domain.QualityScoreRecord, error) {
	article, err := s.store.FindArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article %s: %w", articleID, err)
	}

	features := s.pre.ExtractContentQualityFeatures(*article)
	engagement := EngagementScore(*article)

	social, err := s.socialScore(ctx, *article)
	if err != nil {
		return nil, fmt.Errorf("failed to compute social score for article %s: %w", articleID, err)
	}

	author := s.authorCredibility(ctx, article.AuthorID)
	recency := RecencyScore(article.CreatedAt, s.now())

	overall := Combine(s.weights, features.QualityScore, engagement, social.Value, author.Value, recency)

	if social.Degraded || author.Degraded {
		slog.Debug("quality score computed with degraded sub-scores",
			"articleId", articleID,
			"socialDegraded", social.Degraded,
			"authorDegraded", author.Degraded,
		)
	}

	record := domain.QualityScoreRecord{
		ArticleID:       articleID,
		OverallScore:    overall,
		ContentScore:    features.QualityScore,
		EngagementScore: engagement,
		SocialScore:     social.Value,
		AuthorScore:     author.Value,
		RecencyScore:    recency,
		ContentFeatures: features,
		CalculatedAt:    s.now(),
		Version:         domain.QualityScoreVersion,
	}

	if err := s.store.UpsertQualityScore(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to upsert quality score for article %s: %w", articleID, err)
	}

	if err := s.store.UpdateQualityFields(ctx, articleID, overall, Categorize(overall), s.now()); err != nil {
		return nil, fmt.Errorf("failed to update quality fields for article %s: %w", articleID, err)
	}

	return &record, nil
}

// socialScore combines follower influence, editorial flags and category
// performance. A missing author counts as zero followers; only the
// category sub-score degrades to a neutral constant on lookup failure.
func (s *Service) socialScore(ctx context.Context, article domain.Article) (SubScore, error) {
	followerCount := 0
	author, err := s.store.FindUser(ctx, article.AuthorID)
	if err != nil {
		if !isNotFound(err) {
			return SubScore{}, err
		}
	} else {
		followerCount = author.FollowerCount
	}

	score := FollowerScore(followerCount)

	// Editorial signals (0-40)
	if article.IsSpotlight {
		score += 25
	}
	if article.IsPopular {
		score += 15
	}

	category := s.categoryPerformance(ctx, article)
	score += category.Value

	return SubScore{
		Value:    min(score, 100),
		Degraded: category.Degraded,
	}, nil
}

// categoryPerformance ranks the article's views and likes against
// published siblings created within the trailing 30 days. No peers
// yields the neutral constant; a failed lookup yields the same constant
// flagged as degraded.
func (s *Service) categoryPerformance(ctx context.Context, article domain.Article) SubScore {
	since := s.now().Add(-categoryPeerWindow)
	peers, err := s.store.FindCategoryPeers(ctx, article.CategoryID, article.ID, since)
	if err != nil {
		slog.Warn("category peer lookup failed, using neutral score",
			"articleId", article.ID, "error", err)
		return SubScore{Value: NeutralCategoryScore, Degraded: true}
	}
	if len(peers) == 0 {
		return SubScore{Value: NeutralCategoryScore}
	}

	views := make([]int, len(peers))
	likes := make([]int, len(peers))
	for i, peer := range peers {
		views[i] = peer.Views
		likes[i] = peer.Likes
	}

	viewPercentile := PercentileRank(article.Views, views)
	likePercentile := PercentileRank(article.Likes, likes)

	score := (viewPercentile + likePercentile) / 2 * maxCategoryScore
	return SubScore{Value: min(score, maxCategoryScore)}
}

// authorCredibility aggregates the author's lifetime stats. Authors
// with no articles get the new-author baseline; a failed lookup yields
// the baseline flagged as degraded.
func (s *Service) authorCredibility(ctx context.Context, authorID uuid.UUID) SubScore {
	stats, err := s.store.AuthorStats(ctx, authorID)
	if err != nil {
		slog.Warn("author stats lookup failed, using baseline score",
			"authorId", authorID, "error", err)
		return SubScore{Value: NewAuthorBaseline, Degraded: true}
	}
	if stats == nil {
		return SubScore{Value: NewAuthorBaseline}
	}

	return SubScore{
		Value: authorCredibilityFromStats(stats.TotalArticles, stats.TotalViews, stats.TotalLikes, stats.AvgQuality),
	}
}

// ArticleResult records one article's outcome within a batch run.
type ArticleResult struct {
	ArticleID    uuid.UUID `json:"articleId"`
	QualityScore *float64  `json:"qualityScore,omitempty"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
}

// BatchResult is the structured processed/errors breakdown of a batch
// run; partial success is always visible.
type BatchResult struct {
	Processed      int             `json:"processed"`
	Errors         int             `json:"errors"`
	ArticleResults []ArticleResult `json:"articleResults"`
}

// Batch scores the given articles, or when none are given selects up to
// limit published articles whose score is missing or older than a week.
// Articles are processed one at a time; a failure is recorded and never
// aborts the rest of the batch.
func (s *Service) Batch(ctx context.Context, articleIDs []uuid.UUID, limit int) (*BatchResult, error) {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}

	if len(articleIDs) == 0 {
		cutoff := s.now().Add(-staleScoreAge)
		stale, err := s.store.FindStaleArticleIDs(ctx, cutoff, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to select stale articles: %w", err)
		}
		articleIDs = stale
	}

	result := &BatchResult{ArticleResults: make([]ArticleResult, 0, len(articleIDs))}
	for _, id := range articleIDs {
		record, err := s.Calculate(ctx, id)
		if err != nil {
			slog.Warn("batch quality calculation failed for article", "articleId", id, "error", err)
			result.Errors++
			result.ArticleResults = append(result.ArticleResults, ArticleResult{
				ArticleID: id,
				Status:    "error",
				Error:     err.Error(),
			})
			continue
		}
		result.Processed++
		result.ArticleResults = append(result.ArticleResults, ArticleResult{
			ArticleID:    id,
			QualityScore: &record.OverallScore,
			Status:       "success",
		})
	}
	return result, nil
}

// AverageScores are per-sub-score means over an insights window.
type AverageScores struct {
	Overall    float64 `json:"overall"`
	Content    float64 `json:"content"`
	Engagement float64 `json:"engagement"`
	Social     float64 `json:"social"`
	Author     float64 `json:"author"`
}

// QualityDistribution buckets scored articles by label boundary.
type QualityDistribution struct {
	Excellent      int `json:"excellent"`
	Good           int `json:"good"`
	AverageOrBelow int `json:"averageOrBelow"`
}

// Insights summarizes quality records calculated in a trailing window.
type Insights struct {
	PeriodDays            int                  `json:"periodDays"`
	TotalArticlesAnalyzed int                  `json:"totalArticlesAnalyzed"`
	AverageScores         *AverageScores       `json:"averageScores,omitempty"`
	QualityDistribution   *QualityDistribution `json:"qualityDistribution,omitempty"`
	Message               string               `json:"message,omitempty"`
}

// GetInsights aggregates records calculated within the trailing window.
func (s *Service) GetInsights(ctx context.Context, days int) (*Insights, error) {
	if days <= 0 {
		days = DefaultInsightsDays
	}

	since := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	records, err := s.store.ListQualityScoresSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list quality scores: %w", err)
	}

	if len(records) == 0 {
		return &Insights{
			PeriodDays: days,
			Message:    "No quality data available for the specified period",
		}, nil
	}

	var sums AverageScores
	var dist QualityDistribution
	for _, record := range records {
		sums.Overall += record.OverallScore
		sums.Content += record.ContentScore
		sums.Engagement += record.EngagementScore
		sums.Social += record.SocialScore
		sums.Author += record.AuthorScore

		switch {
		case record.OverallScore >= 80:
			dist.Excellent++
		case record.OverallScore >= 65:
			dist.Good++
		default:
			dist.AverageOrBelow++
		}
	}

	total := float64(len(records))
	return &Insights{
		PeriodDays:            days,
		TotalArticlesAnalyzed: len(records),
		AverageScores: &AverageScores{
			Overall:    utils.RoundDecimal(sums.Overall/total, 2),
			Content:    utils.RoundDecimal(sums.Content/total, 2),
			Engagement: utils.RoundDecimal(sums.Engagement/total, 2),
			Social:     utils.RoundDecimal(sums.Social/total, 2),
			Author:     utils.RoundDecimal(sums.Author/total, 2),
		},
		QualityDistribution: &dist,
	}, nil
}

// GetDetails returns the stored quality record for one article.
func (s *Service) GetDetails(ctx context.Context, articleID uuid.UUID) (*domain.QualityScoreRecord, error) {
	return s.store.FindQualityScore(ctx, articleID)
}

func isNotFound(err error) bool {
	var nf *apperr.NotFoundError
	return errors.As(err, &nf)
}
