package domain

import (
	"time"

	"github.com/google/uuid"
)

// QualityScoreVersion tags every QualityScoreRecord so the scoring
// pipeline can be evolved without ambiguity about how a score was made.
const QualityScoreVersion = "1.0"

// QualityLabel buckets an overall score for editorial use.
type QualityLabel string

const (
	QualityExcellent QualityLabel = "excellent"
	QualityGood      QualityLabel = "good"
	QualityAverage   QualityLabel = "average"
	QualityPoor      QualityLabel = "poor"
	QualityVeryPoor  QualityLabel = "very_poor"
)

// ContentLengthCategory groups articles by reading effort.
type ContentLengthCategory string

const (
	ContentLengthShort  ContentLengthCategory = "short"
	ContentLengthMedium ContentLengthCategory = "medium"
	ContentLengthLong   ContentLengthCategory = "long"
)

// ContentFeatures is the full lexical and structural feature set of one
// article. It has no identity of its own and is recomputed on every
// scoring pass.
type ContentFeatures struct {
	WordCount         int     `json:"wordCount"`
	SentenceCount     int     `json:"sentenceCount"`
	ParagraphCount    int     `json:"paragraphCount"`
	AvgSentenceLength float64 `json:"avgSentenceLength"`
	ReadabilityScore  float64 `json:"readabilityScore"`
	ComplexityScore   float64 `json:"complexityScore"`
	CharacterCount    int     `json:"characterCount"`
	UniqueWordRatio   float64 `json:"uniqueWordRatio"`

	TitleLength           int                   `json:"titleLength"`
	HasExcerpt            bool                  `json:"hasExcerpt"`
	HasImage              bool                  `json:"hasImage"`
	TagCount              int                   `json:"tagCount"`
	KeywordDiversity      int                   `json:"keywordDiversity"`
	URLCount              int                   `json:"urlCount"`
	ContentHash           string                `json:"contentHash"`
	ReadingTimeMinutes    int                   `json:"readingTimeMinutes"`
	ContentLengthCategory ContentLengthCategory `json:"contentLengthCategory"`

	// QualityScore is the 0-100 rubric result over the fields above.
	QualityScore float64 `json:"qualityScore"`
}

// Keyword is a transient frequency-ranked token extracted from content.
type Keyword struct {
	Keyword   string  `json:"keyword"`
	Frequency int     `json:"frequency"`
	Score     float64 `json:"score"`
}

// Entities are pattern-matched references found in raw content.
type Entities struct {
	URLs     []string `json:"urls"`
	Emails   []string `json:"emails"`
	Mentions []string `json:"mentions"`
	Hashtags []string `json:"hashtags"`
}

// QualityScoreRecord is the persisted 1:1 scoring result for an article.
// It is created on first scoring and fully replaced on every
// recomputation, never patched field by field.
type QualityScoreRecord struct {
	ArticleID       uuid.UUID       `json:"articleId"`
	OverallScore    float64         `json:"overallScore"`
	ContentScore    float64         `json:"contentScore"`
	EngagementScore float64         `json:"engagementScore"`
	SocialScore     float64         `json:"socialScore"`
	AuthorScore     float64         `json:"authorScore"`
	RecencyScore    float64         `json:"recencyScore"`
	ContentFeatures ContentFeatures `json:"contentFeatures"`
	CalculatedAt    time.Time       `json:"calculatedAt"`
	Version         string          `json:"version"`
}
