package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/content-pulse/internal/apperr"
	"github.com/DjordjeVuckovic/content-pulse/internal/domain"
	"github.com/DjordjeVuckovic/content-pulse/internal/storage"
	"github.com/google/uuid"
)

const recentViewsWindow = 50

// Access outcome types.
const (
	AccessTypeFull            = "full"
	AccessTypeDenied          = "denied"
	AccessTypeUpgradeRequired = "upgrade_required"
	AccessTypeLimitExceeded   = "limit_exceeded"
)

// AccessInfo is the evaluated access decision for one user and article.
type AccessInfo struct {
	CanAccess          bool                    `json:"canAccess"`
	AccessType         string                  `json:"accessType"`
	UserTier           domain.SubscriptionTier `json:"userTier,omitempty"`
	ContentAccess      domain.ContentAccess    `json:"contentAccess,omitempty"`
	IsPremium          bool                    `json:"isPremium"`
	IsEnterprise       bool                    `json:"isEnterprise"`
	Reason             string                  `json:"reason,omitempty"`
	UpgradeSuggestions *UpgradeSuggestions     `json:"upgradeSuggestions,omitempty"`
}

// UpgradeOption describes one tier a blocked user could move to.
type UpgradeOption struct {
	Tier     domain.SubscriptionTier `json:"tier"`
	Benefits []string                `json:"benefits"`
}

// UpgradeSuggestions accompany a denied access decision.
type UpgradeSuggestions struct {
	CurrentTier        domain.SubscriptionTier `json:"currentTier"`
	RequiredForContent domain.ContentAccess    `json:"requiredForContent"`
	AvailableUpgrades  []UpgradeOption         `json:"availableUpgrades"`
}

// Suggestion is a premium article offered to encourage upgrades.
type Suggestion struct {
	ID               uuid.UUID            `json:"id"`
	Title            string               `json:"title"`
	Excerpt          string               `json:"excerpt,omitempty"`
	QualityScore     float64              `json:"qualityScore"`
	IsPremium        bool                 `json:"isPremium"`
	IsEnterprise     bool                 `json:"isEnterprise"`
	ContentAccess    domain.ContentAccess `json:"contentAccess"`
	PreviewAvailable bool                 `json:"previewAvailable"`
}

// BatchFlagResult summarizes a criteria-driven flagging run.
type BatchFlagResult struct {
	Processed  int         `json:"processed"`
	Errors     int         `json:"errors"`
	ArticleIDs []uuid.UUID `json:"articleIds"`
}

// Service evaluates subscription gating: given a user's tier and an
// article's access flag it decides access and enforces usage limits.
type Service struct {
	store    storage.Store
	activity storage.ActivityTracker
	rules    AccessRules
	now      func() time.Time
}

type Option func(*Service)

func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithRules(rules AccessRules) Option {
	return func(s *Service) { s.rules = rules }
}

func NewService(store storage.Store, activity storage.ActivityTracker, opts ...Option) *Service {
	s := &Service{
		store:    store,
		activity: activity,
		rules:    DefaultAccessRules(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckAccess decides whether the user may read the article. Unknown
// users evaluate as free tier; a missing article is a denied decision,
// not an error.
func (s *Service) CheckAccess(ctx context.Context, userID, articleID uuid.UUID) (*AccessInfo, error) {
	tier := domain.TierFree
	user, err := s.store.FindUser(ctx, userID)
	switch {
	case err == nil && user.SubscriptionTier != "":
		tier = user.SubscriptionTier
	case err != nil && !isNotFound(err):
		return nil, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}

	article, err := s.store.FindArticle(ctx, articleID)
	if err != nil {
		if isNotFound(err) {
			return &AccessInfo{
				CanAccess:  false,
				AccessType: AccessTypeDenied,
				Reason:     "Article not found",
			}, nil
		}
		return nil, fmt.Errorf("failed to fetch article %s: %w", articleID, err)
	}

	contentAccess := article.ContentAccess
	if contentAccess == "" {
		contentAccess = domain.AccessFree
	}

	info := &AccessInfo{
		CanAccess:     true,
		AccessType:    AccessTypeFull,
		UserTier:      tier,
		ContentAccess: contentAccess,
		IsPremium:     article.IsPremiumContent,
		IsEnterprise:  article.IsEnterpriseContent,
	}

	rules := s.rules[tier]
	switch {
	case article.IsEnterpriseContent && !rules.EnterpriseContentAccess:
		info.CanAccess = false
		info.AccessType = AccessTypeUpgradeRequired
		info.Reason = "Enterprise subscription required"
	case article.IsPremiumContent && !rules.PremiumContentAccess:
		info.CanAccess = false
		info.AccessType = AccessTypeUpgradeRequired
		info.Reason = "Premium subscription required"
	}

	if info.CanAccess && tier == domain.TierFree {
		if reason, limitType := s.exceededLimit(ctx, userID, rules); reason != "" {
			info.CanAccess = false
			info.AccessType = AccessTypeLimitExceeded
			info.Reason = reason
			slog.Debug("usage limit exceeded", "userId", userID, "limitType", limitType)
		}
	}

	if !info.CanAccess {
		info.UpgradeSuggestions = s.upgradeSuggestions(tier, contentAccess)
	}
	return info, nil
}

// exceededLimit checks daily and monthly view counters against the tier
// rules. Counter failures default to allowing access, keeping reads
// available when the activity backend is down.
func (s *Service) exceededLimit(ctx context.Context, userID uuid.UUID, rules TierRules) (reason, limitType string) {
	now := s.now()

	if rules.DailyArticleLimit != nil {
		views, err := s.activity.DailyViewCount(ctx, userID, now)
		if err != nil {
			slog.Warn("daily view count failed, allowing access", "userId", userID, "error", err)
			return "", ""
		}
		if views >= *rules.DailyArticleLimit {
			return fmt.Sprintf("Daily limit of %d articles exceeded", *rules.DailyArticleLimit), "daily"
		}
	}

	if rules.MonthlyArticleLimit != nil {
		views, err := s.activity.MonthlyViewCount(ctx, userID, now)
		if err != nil {
			slog.Warn("monthly view count failed, allowing access", "userId", userID, "error", err)
			return "", ""
		}
		if views >= *rules.MonthlyArticleLimit {
			return fmt.Sprintf("Monthly limit of %d articles exceeded", *rules.MonthlyArticleLimit), "monthly"
		}
	}

	return "", ""
}

func (s *Service) upgradeSuggestions(tier domain.SubscriptionTier, required domain.ContentAccess) *UpgradeSuggestions {
	suggestions := &UpgradeSuggestions{
		CurrentTier:        tier,
		RequiredForContent: required,
	}

	switch tier {
	case domain.TierFree:
		suggestions.AvailableUpgrades = []UpgradeOption{
			{
				Tier: domain.TierPremium,
				Benefits: []string{
					"Access to premium content",
					"50 articles per day",
					"1000 articles per month",
					"No ads",
					"Priority support",
				},
			},
			{
				Tier: domain.TierEnterprise,
				Benefits: []string{
					"Unlimited article access",
					"Enterprise exclusive content",
					"Advanced analytics",
					"Team collaboration features",
					"Custom integrations",
				},
			},
		}
	case domain.TierPremium:
		if required == domain.AccessEnterprise {
			suggestions.AvailableUpgrades = []UpgradeOption{
				{
					Tier: domain.TierEnterprise,
					Benefits: []string{
						"Enterprise exclusive content",
						"Unlimited access",
						"Advanced analytics",
						"Team features",
					},
				},
			}
		}
	}
	return suggestions
}

// FlagArticle marks an article with subscription requirements and keeps
// the gating record in sync.
func (s *Service) FlagArticle(ctx context.Context, articleID uuid.UUID, access domain.ContentAccess, premiumFeatures map[string]any) error {
	if !access.Valid() {
		return apperr.NewValidation(fmt.Sprintf("invalid content access %q", access))
	}

	premium := access == domain.AccessPremium || access == domain.AccessEnterprise
	enterprise := access == domain.AccessEnterprise
	now := s.now()

	if err := s.store.UpdateSubscriptionFlags(ctx, articleID, access, premium, enterprise, now); err != nil {
		return fmt.Errorf("failed to flag article %s: %w", articleID, err)
	}

	record := domain.SubscriptionContent{
		ArticleID:       articleID,
		ContentAccess:   access,
		PremiumFeatures: premiumFeatures,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.UpsertSubscriptionContent(ctx, record); err != nil {
		return fmt.Errorf("failed to upsert subscription record for article %s: %w", articleID, err)
	}
	return nil
}

// BatchFlag flags every published article matching the criteria.
// Per-article failures are counted, never aborting the run.
func (s *Service) BatchFlag(ctx context.Context, criteria storage.FlagCriteria, access domain.ContentAccess) (*BatchFlagResult, error) {
	if !access.Valid() {
		return nil, apperr.NewValidation(fmt.Sprintf("invalid content access %q", access))
	}

	ids, err := s.store.FindArticleIDsByCriteria(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to select articles for flagging: %w", err)
	}

	result := &BatchFlagResult{}
	for _, id := range ids {
		if err := s.FlagArticle(ctx, id, access, nil); err != nil {
			slog.Warn("batch flagging failed for article", "articleId", id, "error", err)
			result.Errors++
			continue
		}
		result.Processed++
		result.ArticleIDs = append(result.ArticleIDs, id)
	}
	return result, nil
}

// TrackAccess records a granted read: it bumps the gating record's
// access counter and the user's view counters used by limit checks.
// Tracking failures are logged, not surfaced; access was already granted.
func (s *Service) TrackAccess(ctx context.Context, userID, articleID uuid.UUID, granted bool) {
	if !granted {
		return
	}
	now := s.now()
	if err := s.store.IncrementAccessCount(ctx, articleID, now); err != nil {
		slog.Warn("failed to increment access count", "articleId", articleID, "error", err)
	}
	if err := s.activity.RecordView(ctx, userID, articleID, now); err != nil {
		slog.Warn("failed to record view", "userId", userID, "articleId", articleID, "error", err)
	}
}

// PremiumSuggestions lists top premium articles in the user's recently
// viewed categories, falling back to all categories for new users.
func (s *Service) PremiumSuggestions(ctx context.Context, userID uuid.UUID, limit int) ([]Suggestion, error) {
	recent, err := s.activity.RecentViewedArticles(ctx, userID, recentViewsWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent views for user %s: %w", userID, err)
	}

	seen := make(map[uuid.UUID]struct{})
	var categories []uuid.UUID
	for _, articleID := range recent {
		article, err := s.store.FindArticle(ctx, articleID)
		if err != nil {
			continue
		}
		if _, ok := seen[article.CategoryID]; ok {
			continue
		}
		seen[article.CategoryID] = struct{}{}
		categories = append(categories, article.CategoryID)
		if len(categories) == 10 {
			break
		}
	}

	articles, err := s.store.FindPremiumArticles(ctx, categories, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch premium articles: %w", err)
	}

	suggestions := make([]Suggestion, 0, len(articles))
	for _, article := range articles {
		score := 0.0
		if article.QualityScore != nil {
			score = *article.QualityScore
		}
		access := article.ContentAccess
		if access == "" {
			access = domain.AccessPremium
		}
		suggestions = append(suggestions, Suggestion{
			ID:               article.ID,
			Title:            article.Name,
			Excerpt:          article.Excerpt,
			QualityScore:     score,
			IsPremium:        article.IsPremiumContent,
			IsEnterprise:     article.IsEnterpriseContent,
			ContentAccess:    access,
			PreviewAvailable: true,
		})
	}
	return suggestions, nil
}

func isNotFound(err error) bool {
	var nf *apperr.NotFoundError
	return errors.As(err, &nf)
}
