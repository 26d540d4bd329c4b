package subscription

import (
	"fmt"
	"os"

	"github.com/DjordjeVuckovic/content-pulse/internal/domain"
	"gopkg.in/yaml.v3"
)

// TierRules are the entitlements of one subscription tier. Nil limits
// mean unlimited.
type TierRules struct {
	DailyArticleLimit       *int `yaml:"dailyArticleLimit"`
	MonthlyArticleLimit     *int `yaml:"monthlyArticleLimit"`
	PremiumContentAccess    bool `yaml:"premiumContentAccess"`
	EnterpriseContentAccess bool `yaml:"enterpriseContentAccess"`
}

// AccessRules maps every tier to its entitlements.
type AccessRules map[domain.SubscriptionTier]TierRules

func DefaultAccessRules() AccessRules {
	return AccessRules{
		domain.TierFree: {
			DailyArticleLimit:   intPtr(10),
			MonthlyArticleLimit: intPtr(200),
		},
		domain.TierPremium: {
			DailyArticleLimit:    intPtr(50),
			MonthlyArticleLimit:  intPtr(1000),
			PremiumContentAccess: true,
		},
		domain.TierEnterprise: {
			PremiumContentAccess:    true,
			EnterpriseContentAccess: true,
		},
	}
}

func (r AccessRules) Validate() error {
	for _, tier := range []domain.SubscriptionTier{domain.TierFree, domain.TierPremium, domain.TierEnterprise} {
		if _, ok := r[tier]; !ok {
			return fmt.Errorf("access rules missing tier %q", tier)
		}
	}
	return nil
}

// LoadAccessRules reads tier rules from a YAML file.
func LoadAccessRules(path string) (AccessRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read access rules file: %w", err)
	}

	rules := make(AccessRules)
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse access rules file: %w", err)
	}

	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

func intPtr(v int) *int {
	return &v
}
