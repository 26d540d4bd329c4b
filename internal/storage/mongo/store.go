package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/content-pulse/internal/apperr"
	"github.com/DjordjeVuckovic/content-pulse/internal/domain"
	"github.com/DjordjeVuckovic/content-pulse/internal/storage"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	articlesCollection      = "articles"
	usersCollection         = "users"
	qualityScoresCollection = "article_quality_scores"
	subscriptionsCollection = "subscription_content"
)

// Store is the MongoDB-backed document store.
type Store struct {
	articles      *mongo.Collection
	users         *mongo.Collection
	qualityScores *mongo.Collection
	subscriptions *mongo.Collection
}

func NewStore(client *Client) *Store {
	return &Store{
		articles:      client.db.Collection(articlesCollection),
		users:         client.db.Collection(usersCollection),
		qualityScores: client.db.Collection(qualityScoresCollection),
		subscriptions: client.db.Collection(subscriptionsCollection),
	}
}

// SaveArticle upserts a full article document; used by seeding and tests.
func (s *Store) SaveArticle(ctx context.Context, article domain.Article) error {
	doc := toArticleDoc(article)
	_, err := s.articles.ReplaceOne(ctx,
		bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save article: %w", err)
	}
	return nil
}

// SaveUser upserts a user document; used by seeding and tests.
func (s *Store) SaveUser(ctx context.Context, user domain.User) error {
	doc := userDoc{
		ID:               user.ID.String(),
		Username:         user.Username,
		FollowerCount:    user.FollowerCount,
		SubscriptionTier: string(user.SubscriptionTier),
	}
	_, err := s.users.ReplaceOne(ctx,
		bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *Store) FindArticle(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	var doc articleDoc
	err := s.articles.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NewNotFound("article " + id.String() + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query article: %w", err)
	}

	article, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (s *Store) FindUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NewNotFound("user " + id.String() + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	userID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("malformed user id %q: %w", doc.ID, err)
	}
	return &domain.User{
		ID:               userID,
		Username:         doc.Username,
		FollowerCount:    doc.FollowerCount,
		SubscriptionTier: domain.SubscriptionTier(doc.SubscriptionTier),
	}, nil
}

func (s *Store) FindCategoryPeers(ctx context.Context, categoryID, excludeID uuid.UUID, since time.Time) ([]domain.Article, error) {
	cursor, err := s.articles.Find(ctx, bson.M{
		"category_id": categoryID.String(),
		"_id":         bson.M{"$ne": excludeID.String()},
		"created_at":  bson.M{"$gte": since},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query category peers: %w", err)
	}
	return decodeArticles(ctx, cursor)
}

func (s *Store) AuthorStats(ctx context.Context, authorID uuid.UUID) (*storage.AuthorStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"author_id": authorID.String()}}},
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"total_articles": bson.M{"$sum": 1},
			"total_views":    bson.M{"$sum": "$views"},
			"total_likes":    bson.M{"$sum": "$likes"},
			"avg_quality":    bson.M{"$avg": "$quality_score"},
		}}},
	}

	cursor, err := s.articles.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate author stats: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalArticles int      `bson:"total_articles"`
		TotalViews    int      `bson:"total_views"`
		TotalLikes    int      `bson:"total_likes"`
		AvgQuality    *float64 `bson:"avg_quality"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode author stats: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	return &storage.AuthorStats{
		TotalArticles: results[0].TotalArticles,
		TotalViews:    results[0].TotalViews,
		TotalLikes:    results[0].TotalLikes,
		AvgQuality:    results[0].AvgQuality,
	}, nil
}

func (s *Store) FindStaleArticleIDs(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	filter := bson.M{
		"status": domain.ArticleStatusPublished,
		"$or": bson.A{
			bson.M{"quality_score": bson.M{"$exists": false}},
			bson.M{"last_quality_update": bson.M{"$exists": false}},
			bson.M{"last_quality_update": bson.M{"$lt": cutoff}},
		},
	}
	opts := options.Find().
		SetLimit(int64(limit)).
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := s.articles.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale articles: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode stale articles: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(docs))
	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("malformed article id %q: %w", doc.ID, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Store) FindPremiumArticles(ctx context.Context, categoryIDs []uuid.UUID, limit int) ([]domain.Article, error) {
	filter := bson.M{
		"is_premium_content": true,
		"status":             domain.ArticleStatusPublished,
	}
	if len(categoryIDs) > 0 {
		raw := make([]string, len(categoryIDs))
		for i, id := range categoryIDs {
			raw[i] = id.String()
		}
		filter["category_id"] = bson.M{"$in": raw}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "quality_score", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.articles.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query premium articles: %w", err)
	}
	return decodeArticles(ctx, cursor)
}

func (s *Store) FindArticleIDsByCriteria(ctx context.Context, criteria storage.FlagCriteria) ([]uuid.UUID, error) {
	filter := bson.M{"status": domain.ArticleStatusPublished}
	if criteria.MinQualityScore != nil {
		filter["quality_score"] = bson.M{"$gte": *criteria.MinQualityScore}
	}
	if len(criteria.CategoryIDs) > 0 {
		filter["category_id"] = bson.M{"$in": uuidsToStrings(criteria.CategoryIDs)}
	}
	if len(criteria.AuthorIDs) > 0 {
		filter["author_id"] = bson.M{"$in": uuidsToStrings(criteria.AuthorIDs)}
	}
	if criteria.CreatedAfter != nil {
		filter["created_at"] = bson.M{"$gte": *criteria.CreatedAfter}
	}

	cursor, err := s.articles.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to query articles by criteria: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode article ids: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(docs))
	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("malformed article id %q: %w", doc.ID, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Store) UpdateQualityFields(ctx context.Context, id uuid.UUID, score float64, label domain.QualityLabel, at time.Time) error {
	result, err := s.articles.UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{
			"quality_score":       score,
			"content_quality":     string(label),
			"last_quality_update": at,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update quality fields: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NewNotFound("article " + id.String() + " not found")
	}
	return nil
}

func (s *Store) UpdateSubscriptionFlags(ctx context.Context, id uuid.UUID, access domain.ContentAccess, premium, enterprise bool, at time.Time) error {
	result, err := s.articles.UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{
			"content_access":          string(access),
			"is_premium_content":      premium,
			"is_enterprise_content":   enterprise,
			"subscription_flagged_at": at,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update subscription flags: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NewNotFound("article " + id.String() + " not found")
	}
	return nil
}

func (s *Store) UpsertQualityScore(ctx context.Context, record domain.QualityScoreRecord) error {
	doc := toQualityScoreDoc(record)
	_, err := s.qualityScores.ReplaceOne(ctx,
		bson.M{"article_id": doc.ArticleID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert quality score: %w", err)
	}
	return nil
}

func (s *Store) FindQualityScore(ctx context.Context, articleID uuid.UUID) (*domain.QualityScoreRecord, error) {
	var doc qualityScoreDoc
	err := s.qualityScores.FindOne(ctx, bson.M{"article_id": articleID.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NewNotFound("quality score for article " + articleID.String() + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query quality score: %w", err)
	}

	record, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Store) ListQualityScoresSince(ctx context.Context, since time.Time) ([]domain.QualityScoreRecord, error) {
	cursor, err := s.qualityScores.Find(ctx, bson.M{"calculated_at": bson.M{"$gte": since}})
	if err != nil {
		return nil, fmt.Errorf("failed to query quality scores: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []qualityScoreDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode quality scores: %w", err)
	}

	records := make([]domain.QualityScoreRecord, 0, len(docs))
	for _, doc := range docs {
		record, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Store) UpsertSubscriptionContent(ctx context.Context, record domain.SubscriptionContent) error {
	_, err := s.subscriptions.UpdateOne(ctx,
		bson.M{"article_id": record.ArticleID.String()},
		bson.M{
			"$set": bson.M{
				"content_access":   string(record.ContentAccess),
				"premium_features": record.PremiumFeatures,
				"updated_at":       record.UpdatedAt,
			},
			"$setOnInsert": bson.M{
				"created_at":   record.CreatedAt,
				"access_count": 0,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription content: %w", err)
	}
	return nil
}

func (s *Store) IncrementAccessCount(ctx context.Context, articleID uuid.UUID, at time.Time) error {
	_, err := s.subscriptions.UpdateOne(ctx,
		bson.M{"article_id": articleID.String()},
		bson.M{
			"$inc": bson.M{"access_count": 1},
			"$set": bson.M{"last_accessed": at},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to increment access count: %w", err)
	}
	return nil
}

func decodeArticles(ctx context.Context, cursor *mongo.Cursor) ([]domain.Article, error) {
	defer cursor.Close(ctx)

	var docs []articleDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode articles: %w", err)
	}

	articles := make([]domain.Article, 0, len(docs))
	for _, doc := range docs {
		article, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, nil
}

func uuidsToStrings(ids []uuid.UUID) []string {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	return raw
}
