package mongo

import (
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/content-pulse/internal/domain"
	"github.com/google/uuid"
)

// Documents keep ids as strings so they stay readable in the shell and
// free of driver-specific binary subtypes.

type articleDoc struct {
	ID           string   `bson:"_id"`
	Name         string   `bson:"name"`
	Content      string   `bson:"content"`
	Excerpt      string   `bson:"excerpt,omitempty"`
	Tags         []string `bson:"tags,omitempty"`
	CategoryID   string   `bson:"category_id"`
	AuthorID     string   `bson:"author_id"`
	Status       string   `bson:"status"`
	ImageID      string   `bson:"image_id,omitempty"`
	Views        int      `bson:"views"`
	Likes        int      `bson:"likes"`
	BookmarkedBy []string `bson:"bookmarked_by,omitempty"`
	CommentCount int      `bson:"comment_count"`
	IsSpotlight  bool     `bson:"is_spotlight"`
	IsPopular    bool     `bson:"is_popular"`
	CreatedAt    time.Time `bson:"created_at"`

	ContentAccess         string     `bson:"content_access,omitempty"`
	IsPremiumContent      bool       `bson:"is_premium_content"`
	IsEnterpriseContent   bool       `bson:"is_enterprise_content"`
	SubscriptionFlaggedAt *time.Time `bson:"subscription_flagged_at,omitempty"`

	QualityScore      *float64   `bson:"quality_score,omitempty"`
	ContentQuality    string     `bson:"content_quality,omitempty"`
	LastQualityUpdate *time.Time `bson:"last_quality_update,omitempty"`
}

type userDoc struct {
	ID               string `bson:"_id"`
	Username         string `bson:"username,omitempty"`
	FollowerCount    int    `bson:"follower_count"`
	SubscriptionTier string `bson:"subscription_tier,omitempty"`
}

type qualityScoreDoc struct {
	ArticleID       string                 `bson:"article_id"`
	OverallScore    float64                `bson:"overall_score"`
	ContentScore    float64                `bson:"content_score"`
	EngagementScore float64                `bson:"engagement_score"`
	SocialScore     float64                `bson:"social_score"`
	AuthorScore     float64                `bson:"author_score"`
	RecencyScore    float64                `bson:"recency_score"`
	ContentFeatures domain.ContentFeatures `bson:"content_features"`
	CalculatedAt    time.Time              `bson:"calculated_at"`
	Version         string                 `bson:"version"`
}

type subscriptionContentDoc struct {
	ArticleID       string         `bson:"article_id"`
	ContentAccess   string         `bson:"content_access"`
	PremiumFeatures map[string]any `bson:"premium_features,omitempty"`
	CreatedAt       time.Time      `bson:"created_at"`
	UpdatedAt       time.Time      `bson:"updated_at"`
	AccessCount     int            `bson:"access_count"`
	LastAccessed    *time.Time     `bson:"last_accessed,omitempty"`
}

func toArticleDoc(article domain.Article) articleDoc {
	bookmarks := make([]string, len(article.BookmarkedBy))
	for i, id := range article.BookmarkedBy {
		bookmarks[i] = id.String()
	}
	return articleDoc{
		ID:           article.ID.String(),
		Name:         article.Name,
		Content:      article.Content,
		Excerpt:      article.Excerpt,
		Tags:         article.Tags,
		CategoryID:   article.CategoryID.String(),
		AuthorID:     article.AuthorID.String(),
		Status:       article.Status,
		ImageID:      article.ImageID,
		Views:        article.Views,
		Likes:        article.Likes,
		BookmarkedBy: bookmarks,
		CommentCount: article.CommentCount,
		IsSpotlight:  article.IsSpotlight,
		IsPopular:    article.IsPopular,
		CreatedAt:    article.CreatedAt,

		ContentAccess:         string(article.ContentAccess),
		IsPremiumContent:      article.IsPremiumContent,
		IsEnterpriseContent:   article.IsEnterpriseContent,
		SubscriptionFlaggedAt: article.SubscriptionFlaggedAt,

		QualityScore:      article.QualityScore,
		ContentQuality:    string(article.ContentQuality),
		LastQualityUpdate: article.LastQualityUpdate,
	}
}

func (d articleDoc) toDomain() (domain.Article, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Article{}, fmt.Errorf("malformed article id %q: %w", d.ID, err)
	}
	categoryID, err := uuid.Parse(d.CategoryID)
	if err != nil {
		return domain.Article{}, fmt.Errorf("malformed category id %q: %w", d.CategoryID, err)
	}
	authorID, err := uuid.Parse(d.AuthorID)
	if err != nil {
		return domain.Article{}, fmt.Errorf("malformed author id %q: %w", d.AuthorID, err)
	}

	bookmarks := make([]uuid.UUID, 0, len(d.BookmarkedBy))
	for _, raw := range d.BookmarkedBy {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return domain.Article{}, fmt.Errorf("malformed bookmark user id %q: %w", raw, err)
		}
		bookmarks = append(bookmarks, userID)
	}

	return domain.Article{
		ID:           id,
		Name:         d.Name,
		Content:      d.Content,
		Excerpt:      d.Excerpt,
		Tags:         d.Tags,
		CategoryID:   categoryID,
		AuthorID:     authorID,
		Status:       d.Status,
		ImageID:      d.ImageID,
		Views:        d.Views,
		Likes:        d.Likes,
		BookmarkedBy: bookmarks,
		CommentCount: d.CommentCount,
		IsSpotlight:  d.IsSpotlight,
		IsPopular:    d.IsPopular,
		CreatedAt:    d.CreatedAt,

		ContentAccess:         domain.ContentAccess(d.ContentAccess),
		IsPremiumContent:      d.IsPremiumContent,
		IsEnterpriseContent:   d.IsEnterpriseContent,
		SubscriptionFlaggedAt: d.SubscriptionFlaggedAt,

		QualityScore:      d.QualityScore,
		ContentQuality:    domain.QualityLabel(d.ContentQuality),
		LastQualityUpdate: d.LastQualityUpdate,
	}, nil
}

func toQualityScoreDoc(record domain.QualityScoreRecord) qualityScoreDoc {
	return qualityScoreDoc{
		ArticleID:       record.ArticleID.String(),
		OverallScore:    record.OverallScore,
		ContentScore:    record.ContentScore,
		EngagementScore: record.EngagementScore,
		SocialScore:     record.SocialScore,
		AuthorScore:     record.AuthorScore,
		RecencyScore:    record.RecencyScore,
		ContentFeatures: record.ContentFeatures,
		CalculatedAt:    record.CalculatedAt,
		Version:         record.Version,
	}
}

func (d qualityScoreDoc) toDomain() (domain.QualityScoreRecord, error) {
	articleID, err := uuid.Parse(d.ArticleID)
	if err != nil {
		return domain.QualityScoreRecord{}, fmt.Errorf("malformed article id %q: %w", d.ArticleID, err)
	}
	return domain.QualityScoreRecord{
		ArticleID:       articleID,
		OverallScore:    d.OverallScore,
		ContentScore:    d.ContentScore,
		EngagementScore: d.EngagementScore,
		SocialScore:     d.SocialScore,
		AuthorScore:     d.AuthorScore,
		RecencyScore:    d.RecencyScore,
		ContentFeatures: d.ContentFeatures,
		CalculatedAt:    d.CalculatedAt,
		Version:         d.Version,
	}, nil
}
