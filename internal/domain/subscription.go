package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionTier is a user's paid plan.
type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierPremium    SubscriptionTier = "premium"
	TierEnterprise SubscriptionTier = "enterprise"
)

// ContentAccess is the access level an article requires.
type ContentAccess string

const (
	AccessFree       ContentAccess = "free"
	AccessPremium    ContentAccess = "premium"
	AccessEnterprise ContentAccess = "enterprise"
)

func (a ContentAccess) Valid() bool {
	switch a {
	case AccessFree, AccessPremium, AccessEnterprise:
		return true
	}
	return false
}

// SubscriptionContent tracks gating metadata per flagged article,
// separate from the article document itself.
type SubscriptionContent struct {
	ArticleID       uuid.UUID      `json:"articleId"`
	ContentAccess   ContentAccess  `json:"contentAccess"`
	PremiumFeatures map[string]any `json:"premiumFeatures,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	AccessCount     int            `json:"accessCount"`
	LastAccessed    *time.Time     `json:"lastAccessed,omitempty"`
}
