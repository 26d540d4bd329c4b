package domain

import (
	"time"

	"github.com/google/uuid"
)

const ArticleStatusPublished = "published"

// Article is a content item owned by the CMS. The scoring engine reads
// everything except the four quality fields, which it owns and overwrites.
type Article struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Content      string      `json:"content"`
	Excerpt      string      `json:"excerpt,omitempty"`
	Tags         []string    `json:"tags,omitempty"`
	CategoryID   uuid.UUID   `json:"categoryId"`
	AuthorID     uuid.UUID   `json:"authorId"`
	Status       string      `json:"status,omitempty"`
	ImageID      string      `json:"imageId,omitempty"`
	Views        int         `json:"views"`
	Likes        int         `json:"likes"`
	BookmarkedBy []uuid.UUID `json:"bookmarkedBy,omitempty"`
	CommentCount int         `json:"commentCount"`
	IsSpotlight  bool        `json:"isSpotlight"`
	IsPopular    bool        `json:"isPopular"`
	CreatedAt    time.Time   `json:"createdAt"`

	// Subscription gating flags, written by the subscription service.
	ContentAccess         ContentAccess `json:"contentAccess,omitempty"`
	IsPremiumContent      bool          `json:"isPremiumContent"`
	IsEnterpriseContent   bool          `json:"isEnterpriseContent"`
	SubscriptionFlaggedAt *time.Time    `json:"subscriptionFlaggedAt,omitempty"`

	// Quality fields, written by the quality service.
	QualityScore      *float64     `json:"qualityScore,omitempty"`
	ContentQuality    QualityLabel `json:"contentQuality,omitempty"`
	LastQualityUpdate *time.Time   `json:"lastQualityUpdate,omitempty"`
}

// User carries the subset of the CMS user document the scoring and
// subscription services read.
type User struct {
	ID               uuid.UUID        `json:"id"`
	Username         string           `json:"username,omitempty"`
	FollowerCount    int              `json:"followerCount"`
	SubscriptionTier SubscriptionTier `json:"subscriptionTier,omitempty"`
}
