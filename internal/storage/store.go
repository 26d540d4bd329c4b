package storage

import (
	"context"
	"time"

	"github.com/DjordjeVuckovic/content-pulse/internal/domain"
	"github.com/google/uuid"
)

type Type string

const (
	PG    Type = "pg"
	Mongo Type = "mongo"
	InMem Type = "in_mem"
)

type StoreError string

const (
	ErrUnsupportedStore StoreError = "unsupported store type: %s"
)

func (e StoreError) Error() string {
	return string(e)
}

// AuthorStats aggregates an author's lifetime article performance.
// AvgQuality is nil when none of the author's articles carry a score yet.
type AuthorStats struct {
	TotalArticles int
	TotalViews    int
	TotalLikes    int
	AvgQuality    *float64
}

// FlagCriteria selects published articles for batch subscription flagging.
type FlagCriteria struct {
	MinQualityScore *float64    `json:"minQualityScore,omitempty"`
	CategoryIDs     []uuid.UUID `json:"categoryIds,omitempty"`
	AuthorIDs       []uuid.UUID `json:"authorIds,omitempty"`
	CreatedAfter    *time.Time  `json:"createdAfter,omitempty"`
}

// ArticleReader exposes the article lookups the scoring and
// subscription services need. FindArticle returns apperr.NotFoundError
// when the article does not exist.
type ArticleReader interface {
	FindArticle(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	FindUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// FindCategoryPeers returns siblings in the same category created
	// at or after since, excluding the given article.
	FindCategoryPeers(ctx context.Context, categoryID, excludeID uuid.UUID, since time.Time) ([]domain.Article, error)
	// AuthorStats returns nil when the author has no articles.
	AuthorStats(ctx context.Context, authorID uuid.UUID) (*AuthorStats, error)
	// FindStaleArticleIDs selects up to limit published articles missing
	// a quality score or last updated before cutoff.
	FindStaleArticleIDs(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)
	// FindPremiumArticles lists published premium articles, restricted
	// to categoryIDs when non-empty, ordered by quality score descending.
	FindPremiumArticles(ctx context.Context, categoryIDs []uuid.UUID, limit int) ([]domain.Article, error)
	FindArticleIDsByCriteria(ctx context.Context, criteria FlagCriteria) ([]uuid.UUID, error)
}

// ArticleWriter updates the article fields owned by the two services.
type ArticleWriter interface {
	UpdateQualityFields(ctx context.Context, id uuid.UUID, score float64, label domain.QualityLabel, at time.Time) error
	UpdateSubscriptionFlags(ctx context.Context, id uuid.UUID, access domain.ContentAccess, premium, enterprise bool, at time.Time) error
}

// QualityStore persists one QualityScoreRecord per article, replaced
// whole on every recomputation.
type QualityStore interface {
	UpsertQualityScore(ctx context.Context, record domain.QualityScoreRecord) error
	// FindQualityScore returns apperr.NotFoundError when no record exists.
	FindQualityScore(ctx context.Context, articleID uuid.UUID) (*domain.QualityScoreRecord, error)
	ListQualityScoresSince(ctx context.Context, since time.Time) ([]domain.QualityScoreRecord, error)
}

// SubscriptionStore tracks per-article gating records.
type SubscriptionStore interface {
	UpsertSubscriptionContent(ctx context.Context, record domain.SubscriptionContent) error
	IncrementAccessCount(ctx context.Context, articleID uuid.UUID, at time.Time) error
}

// Store is the full document-store capability handed to the services.
type Store interface {
	ArticleReader
	ArticleWriter
	QualityStore
	SubscriptionStore
}
