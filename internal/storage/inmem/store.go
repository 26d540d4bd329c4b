package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/content-pulse/internal/apperr"
	"github.com/DjordjeVuckovic/content-pulse/internal/domain"
	"github.com/DjordjeVuckovic/content-pulse/internal/storage"
	"github.com/google/uuid"
)

// Store is a map-backed storage.Store used by tests and local runs.
type Store struct {
	mu            sync.RWMutex
	articles      map[uuid.UUID]domain.Article
	users         map[uuid.UUID]domain.User
	qualityScores map[uuid.UUID]domain.QualityScoreRecord
	subscriptions map[uuid.UUID]domain.SubscriptionContent
}

func NewStore() *Store {
	return &Store{
		articles:      make(map[uuid.UUID]domain.Article),
		users:         make(map[uuid.UUID]domain.User),
		qualityScores: make(map[uuid.UUID]domain.QualityScoreRecord),
		subscriptions: make(map[uuid.UUID]domain.SubscriptionContent),
	}
}

// SeedArticle and SeedUser load fixtures; they overwrite silently.
func (s *Store) SeedArticle(article domain.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[article.ID] = article
}

func (s *Store) SeedUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *Store) FindArticle(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	article, ok := s.articles[id]
	if !ok {
		return nil, apperr.NewNotFound("article " + id.String() + " not found")
	}
	return &article, nil
}

func (s *Store) FindUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, apperr.NewNotFound("user " + id.String() + " not found")
	}
	return &user, nil
}

func (s *Store) FindCategoryPeers(ctx context.Context, categoryID, excludeID uuid.UUID, since time.Time) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var peers []domain.Article
	for _, article := range s.articles {
		if article.ID == excludeID || article.CategoryID != categoryID {
			continue
		}
		if article.CreatedAt.Before(since) {
			continue
		}
		peers = append(peers, article)
	}
	return peers, nil
}

func (s *Store) AuthorStats(ctx context.Context, authorID uuid.UUID) (*storage.AuthorStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats storage.AuthorStats
	var qualitySum float64
	var qualityCount int
	for _, article := range s.articles {
		if article.AuthorID != authorID {
			continue
		}
		stats.TotalArticles++
		stats.TotalViews += article.Views
		stats.TotalLikes += article.Likes
		if article.QualityScore != nil {
			qualitySum += *article.QualityScore
			qualityCount++
		}
	}
	if stats.TotalArticles == 0 {
		return nil, nil
	}
	if qualityCount > 0 {
		avg := qualitySum / float64(qualityCount)
		stats.AvgQuality = &avg
	}
	return &stats, nil
}

func (s *Store) FindStaleArticleIDs(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stale []domain.Article
	for _, article := range s.articles {
		if article.Status != domain.ArticleStatusPublished {
			continue
		}
		if article.QualityScore == nil || article.LastQualityUpdate == nil || article.LastQualityUpdate.Before(cutoff) {
			stale = append(stale, article)
		}
	}
	// Deterministic order for tests: oldest first.
	sort.Slice(stale, func(i, j int) bool {
		return stale[i].CreatedAt.Before(stale[j].CreatedAt)
	})

	ids := make([]uuid.UUID, 0, len(stale))
	for _, article := range stale {
		if len(ids) == limit {
			break
		}
		ids = append(ids, article.ID)
	}
	return ids, nil
}

func (s *Store) FindPremiumArticles(ctx context.Context, categoryIDs []uuid.UUID, limit int) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[uuid.UUID]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		wanted[id] = struct{}{}
	}

	var articles []domain.Article
	for _, article := range s.articles {
		if !article.IsPremiumContent || article.Status != domain.ArticleStatusPublished {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[article.CategoryID]; !ok {
				continue
			}
		}
		articles = append(articles, article)
	}

	sort.Slice(articles, func(i, j int) bool {
		return qualityOrZero(articles[i]) > qualityOrZero(articles[j])
	})
	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

func (s *Store) FindArticleIDsByCriteria(ctx context.Context, criteria storage.FlagCriteria) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make(map[uuid.UUID]struct{}, len(criteria.CategoryIDs))
	for _, id := range criteria.CategoryIDs {
		categories[id] = struct{}{}
	}
	authors := make(map[uuid.UUID]struct{}, len(criteria.AuthorIDs))
	for _, id := range criteria.AuthorIDs {
		authors[id] = struct{}{}
	}

	var ids []uuid.UUID
	for _, article := range s.articles {
		if article.Status != domain.ArticleStatusPublished {
			continue
		}
		if criteria.MinQualityScore != nil && qualityOrZero(article) < *criteria.MinQualityScore {
			continue
		}
		if len(categories) > 0 {
			if _, ok := categories[article.CategoryID]; !ok {
				continue
			}
		}
		if len(authors) > 0 {
			if _, ok := authors[article.AuthorID]; !ok {
				continue
			}
		}
		if criteria.CreatedAfter != nil && article.CreatedAt.Before(*criteria.CreatedAfter) {
			continue
		}
		ids = append(ids, article.ID)
	}
	return ids, nil
}

func (s *Store) UpdateQualityFields(ctx context.Context, id uuid.UUID, score float64, label domain.QualityLabel, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	article, ok := s.articles[id]
	if !ok {
		return apperr.NewNotFound("article " + id.String() + " not found")
	}
	article.QualityScore = &score
	article.ContentQuality = label
	article.LastQualityUpdate = &at
	s.articles[id] = article
	return nil
}

func (s *Store) UpdateSubscriptionFlags(ctx context.Context, id uuid.UUID, access domain.ContentAccess, premium, enterprise bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	article, ok := s.articles[id]
	if !ok {
		return apperr.NewNotFound("article " + id.String() + " not found")
	}
	article.ContentAccess = access
	article.IsPremiumContent = premium
	article.IsEnterpriseContent = enterprise
	article.SubscriptionFlaggedAt = &at
	s.articles[id] = article
	return nil
}

func (s *Store) UpsertQualityScore(ctx context.Context, record domain.QualityScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qualityScores[record.ArticleID] = record
	return nil
}

func (s *Store) FindQualityScore(ctx context.Context, articleID uuid.UUID) (*domain.QualityScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.qualityScores[articleID]
	if !ok {
		return nil, apperr.NewNotFound("quality score for article " + articleID.String() + " not found")
	}
	return &record, nil
}

func (s *Store) ListQualityScoresSince(ctx context.Context, since time.Time) ([]domain.QualityScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []domain.QualityScoreRecord
	for _, record := range s.qualityScores {
		if !record.CalculatedAt.Before(since) {
			records = append(records, record)
		}
	}
	return records, nil
}

func (s *Store) UpsertSubscriptionContent(ctx context.Context, record domain.SubscriptionContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.subscriptions[record.ArticleID]; ok {
		record.AccessCount = existing.AccessCount
		record.LastAccessed = existing.LastAccessed
		record.CreatedAt = existing.CreatedAt
	}
	s.subscriptions[record.ArticleID] = record
	return nil
}

func (s *Store) IncrementAccessCount(ctx context.Context, articleID uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := s.subscriptions[articleID]
	record.ArticleID = articleID
	record.AccessCount++
	record.LastAccessed = &at
	s.subscriptions[articleID] = record
	return nil
}

// SubscriptionContent exposes the tracked record for assertions.
func (s *Store) SubscriptionContent(articleID uuid.UUID) (domain.SubscriptionContent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.subscriptions[articleID]
	return record, ok
}

func qualityOrZero(article domain.Article) float64 {
	if article.QualityScore == nil {
		return 0
	}
	return *article.QualityScore
}
