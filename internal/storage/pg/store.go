package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/content-pulse/internal/apperr"
	"github.com/DjordjeVuckovic/content-pulse/internal/domain"
	"github.com/DjordjeVuckovic/content-pulse/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const articleColumns = `
	id, name, content, excerpt, tags, category_id, author_id, status, image_id,
	views, likes, bookmarked_by, comment_count, is_spotlight, is_popular,
	content_access, is_premium_content, is_enterprise_content, subscription_flagged_at,
	quality_score, content_quality, last_quality_update, created_at`

// Store is the Postgres-backed document store. Article features are
// kept relational with JSONB for the free-form feature payload.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(pool *ConnectionPool) *Store {
	return &Store{db: pool.conn}
}

// SaveArticle upserts a full article document; used by seeding and tests.
func (s *Store) SaveArticle(ctx context.Context, article domain.Article) error {
	cmd := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			content = EXCLUDED.content,
			excerpt = EXCLUDED.excerpt,
			tags = EXCLUDED.tags,
			views = EXCLUDED.views,
			likes = EXCLUDED.likes,
			bookmarked_by = EXCLUDED.bookmarked_by,
			comment_count = EXCLUDED.comment_count,
			is_spotlight = EXCLUDED.is_spotlight,
			is_popular = EXCLUDED.is_popular;
	`
	_, err := s.db.Exec(ctx, cmd,
		article.ID, article.Name, article.Content, article.Excerpt, article.Tags,
		article.CategoryID, article.AuthorID, article.Status, article.ImageID,
		article.Views, article.Likes, article.BookmarkedBy, article.CommentCount,
		article.IsSpotlight, article.IsPopular,
		string(article.ContentAccess), article.IsPremiumContent, article.IsEnterpriseContent,
		article.SubscriptionFlaggedAt,
		article.QualityScore, string(article.ContentQuality), article.LastQualityUpdate,
		article.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save article: %w", err)
	}
	return nil
}

// SaveUser upserts a user document; used by seeding and tests.
func (s *Store) SaveUser(ctx context.Context, user domain.User) error {
	cmd := `
		INSERT INTO users (id, username, follower_count, subscription_tier)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			follower_count = EXCLUDED.follower_count,
			subscription_tier = EXCLUDED.subscription_tier;
	`
	_, err := s.db.Exec(ctx, cmd, user.ID, user.Username, user.FollowerCount, string(user.SubscriptionTier))
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *Store) FindArticle(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	row := s.db.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	article, err := scanArticle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("article " + id.String() + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query article: %w", err)
	}
	return article, nil
}

func (s *Store) FindUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	var tier string
	err := s.db.QueryRow(ctx,
		`SELECT id, username, follower_count, subscription_tier FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Username, &user.FollowerCount, &tier)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("user " + id.String() + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	user.SubscriptionTier = domain.SubscriptionTier(tier)
	return &user, nil
}

func (s *Store) FindCategoryPeers(ctx context.Context, categoryID, excludeID uuid.UUID, since time.Time) ([]domain.Article, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE category_id = $1 AND id <> $2 AND created_at >= $3
	`, categoryID, excludeID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query category peers: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

func (s *Store) AuthorStats(ctx context.Context, authorID uuid.UUID) (*storage.AuthorStats, error) {
	var stats storage.AuthorStats
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(views), 0), COALESCE(SUM(likes), 0), AVG(quality_score)
		FROM articles
		WHERE author_id = $1
	`, authorID).Scan(&stats.TotalArticles, &stats.TotalViews, &stats.TotalLikes, &stats.AvgQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate author stats: %w", err)
	}
	if stats.TotalArticles == 0 {
		return nil, nil
	}
	return &stats, nil
}

func (s *Store) FindStaleArticleIDs(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id
		FROM articles
		WHERE status = $1
		  AND (quality_score IS NULL OR last_quality_update IS NULL OR last_quality_update < $2)
		ORDER BY created_at
		LIMIT $3
	`, domain.ArticleStatusPublished, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale articles: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan article id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) FindPremiumArticles(ctx context.Context, categoryIDs []uuid.UUID, limit int) ([]domain.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE is_premium_content AND status = $1`
	args := []any{domain.ArticleStatusPublished}

	if len(categoryIDs) > 0 {
		query += ` AND category_id = ANY($2) ORDER BY quality_score DESC NULLS LAST LIMIT $3`
		args = append(args, categoryIDs, limit)
	} else {
		query += ` ORDER BY quality_score DESC NULLS LAST LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query premium articles: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

func (s *Store) FindArticleIDsByCriteria(ctx context.Context, criteria storage.FlagCriteria) ([]uuid.UUID, error) {
	query := `SELECT id FROM articles WHERE status = $1`
	args := []any{domain.ArticleStatusPublished}

	if criteria.MinQualityScore != nil {
		args = append(args, *criteria.MinQualityScore)
		query += fmt.Sprintf(` AND quality_score >= $%d`, len(args))
	}
	if len(criteria.CategoryIDs) > 0 {
		args = append(args, criteria.CategoryIDs)
		query += fmt.Sprintf(` AND category_id = ANY($%d)`, len(args))
	}
	if len(criteria.AuthorIDs) > 0 {
		args = append(args, criteria.AuthorIDs)
		query += fmt.Sprintf(` AND author_id = ANY($%d)`, len(args))
	}
	if criteria.CreatedAfter != nil {
		args = append(args, *criteria.CreatedAfter)
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles by criteria: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan article id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) UpdateQualityFields(ctx context.Context, id uuid.UUID, score float64, label domain.QualityLabel, at time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE articles
		SET quality_score = $2, content_quality = $3, last_quality_update = $4
		WHERE id = $1
	`, id, score, string(label), at)
	if err != nil {
		return fmt.Errorf("failed to update quality fields: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("article " + id.String() + " not found")
	}
	return nil
}

func (s *Store) UpdateSubscriptionFlags(ctx context.Context, id uuid.UUID, access domain.ContentAccess, premium, enterprise bool, at time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE articles
		SET content_access = $2, is_premium_content = $3, is_enterprise_content = $4, subscription_flagged_at = $5
		WHERE id = $1
	`, id, string(access), premium, enterprise, at)
	if err != nil {
		return fmt.Errorf("failed to update subscription flags: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("article " + id.String() + " not found")
	}
	return nil
}

func (s *Store) UpsertQualityScore(ctx context.Context, record domain.QualityScoreRecord) error {
	featuresJSON, err := json.Marshal(record.ContentFeatures)
	if err != nil {
		return fmt.Errorf("failed to marshal content features: %w", err)
	}

	cmd := `
		INSERT INTO article_quality_scores (
			article_id, overall_score, content_score, engagement_score,
			social_score, author_score, recency_score, content_features,
			calculated_at, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (article_id) DO UPDATE SET
			overall_score = EXCLUDED.overall_score,
			content_score = EXCLUDED.content_score,
			engagement_score = EXCLUDED.engagement_score,
			social_score = EXCLUDED.social_score,
			author_score = EXCLUDED.author_score,
			recency_score = EXCLUDED.recency_score,
			content_features = EXCLUDED.content_features,
			calculated_at = EXCLUDED.calculated_at,
			version = EXCLUDED.version;
	`
	_, err = s.db.Exec(ctx, cmd,
		record.ArticleID, record.OverallScore, record.ContentScore, record.EngagementScore,
		record.SocialScore, record.AuthorScore, record.RecencyScore, featuresJSON,
		record.CalculatedAt, record.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert quality score: %w", err)
	}
	return nil
}

func (s *Store) FindQualityScore(ctx context.Context, articleID uuid.UUID) (*domain.QualityScoreRecord, error) {
	row := s.db.QueryRow(ctx, `
		SELECT article_id, overall_score, content_score, engagement_score,
		       social_score, author_score, recency_score, content_features,
		       calculated_at, version
		FROM article_quality_scores
		WHERE article_id = $1
	`, articleID)

	record, err := scanQualityScore(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("quality score for article " + articleID.String() + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query quality score: %w", err)
	}
	return record, nil
}

func (s *Store) ListQualityScoresSince(ctx context.Context, since time.Time) ([]domain.QualityScoreRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT article_id, overall_score, content_score, engagement_score,
		       social_score, author_score, recency_score, content_features,
		       calculated_at, version
		FROM article_quality_scores
		WHERE calculated_at >= $1
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query quality scores: %w", err)
	}
	defer rows.Close()

	var records []domain.QualityScoreRecord
	for rows.Next() {
		record, err := scanQualityScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quality score: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func (s *Store) UpsertSubscriptionContent(ctx context.Context, record domain.SubscriptionContent) error {
	featuresJSON, err := json.Marshal(record.PremiumFeatures)
	if err != nil {
		return fmt.Errorf("failed to marshal premium features: %w", err)
	}

	cmd := `
		INSERT INTO subscription_content (article_id, content_access, premium_features, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (article_id) DO UPDATE SET
			content_access = EXCLUDED.content_access,
			premium_features = EXCLUDED.premium_features,
			updated_at = EXCLUDED.updated_at;
	`
	_, err = s.db.Exec(ctx, cmd,
		record.ArticleID, string(record.ContentAccess), featuresJSON,
		record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription content: %w", err)
	}
	return nil
}

func (s *Store) IncrementAccessCount(ctx context.Context, articleID uuid.UUID, at time.Time) error {
	cmd := `
		INSERT INTO subscription_content (article_id, content_access, premium_features, created_at, updated_at, access_count, last_accessed)
		VALUES ($1, $2, '{}', $3, $3, 1, $3)
		ON CONFLICT (article_id) DO UPDATE SET
			access_count = subscription_content.access_count + 1,
			last_accessed = EXCLUDED.last_accessed;
	`
	_, err := s.db.Exec(ctx, cmd, articleID, string(domain.AccessFree), at)
	if err != nil {
		return fmt.Errorf("failed to increment access count: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*domain.Article, error) {
	var article domain.Article
	var contentAccess, contentQuality string
	err := row.Scan(
		&article.ID, &article.Name, &article.Content, &article.Excerpt, &article.Tags,
		&article.CategoryID, &article.AuthorID, &article.Status, &article.ImageID,
		&article.Views, &article.Likes, &article.BookmarkedBy, &article.CommentCount,
		&article.IsSpotlight, &article.IsPopular,
		&contentAccess, &article.IsPremiumContent, &article.IsEnterpriseContent,
		&article.SubscriptionFlaggedAt,
		&article.QualityScore, &contentQuality, &article.LastQualityUpdate,
		&article.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	article.ContentAccess = domain.ContentAccess(contentAccess)
	article.ContentQuality = domain.QualityLabel(contentQuality)
	return &article, nil
}

func scanArticles(rows pgx.Rows) ([]domain.Article, error) {
	var articles []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *article)
	}
	return articles, rows.Err()
}

func scanQualityScore(row rowScanner) (*domain.QualityScoreRecord, error) {
	var record domain.QualityScoreRecord
	var featuresJSON []byte
	err := row.Scan(
		&record.ArticleID, &record.OverallScore, &record.ContentScore, &record.EngagementScore,
		&record.SocialScore, &record.AuthorScore, &record.RecencyScore, &featuresJSON,
		&record.CalculatedAt, &record.Version,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(featuresJSON, &record.ContentFeatures); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content features: %w", err)
	}
	return &record, nil
}
