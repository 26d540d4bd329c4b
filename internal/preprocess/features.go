package preprocess

import (
	"unicode/utf8"

	"github.com/DjordjeVuckovic/content-pulse/internal/domain"
)

const featureKeywordLimit = 10

// ExtractContentQualityFeatures merges text features with article
// metadata into the full feature set, including the rubric score.
func (p *Preprocessor) ExtractContentQualityFeatures(article domain.Article) domain.ContentFeatures {
	text := p.ExtractTextFeatures(article.Content)
	keywords := p.ExtractKeywords(article.Content, featureKeywordLimit)
	entities := p.ExtractEntities(article.Content)

	features := domain.ContentFeatures{
		WordCount:         text.WordCount,
		SentenceCount:     text.SentenceCount,
		ParagraphCount:    text.ParagraphCount,
		AvgSentenceLength: text.AvgSentenceLength,
		ReadabilityScore:  text.ReadabilityScore,
		ComplexityScore:   text.ComplexityScore,
		CharacterCount:    text.CharacterCount,
		UniqueWordRatio:   text.UniqueWordRatio,

		TitleLength:           utf8.RuneCountInString(article.Name),
		HasExcerpt:            article.Excerpt != "",
		HasImage:              article.ImageID != "",
		TagCount:              len(article.Tags),
		KeywordDiversity:      len(keywords),
		URLCount:              len(entities.URLs),
		ContentHash:           p.ContentHash(article.Content),
		ReadingTimeMinutes:    p.EstimateReadingTime(article.Content),
		ContentLengthCategory: CategorizeContentLength(text.WordCount),
	}

	features.QualityScore = RubricScore(features)
	return features
}

// RubricScore allocates fixed points across content quality signals.
// The maximal contributions sum to exactly 100.
func RubricScore(f domain.ContentFeatures) float64 {
	score := 0.0

	// Word count (0-25)
	switch {
	case f.WordCount > 1000:
		score += 25
	case f.WordCount > 500:
		score += 20
	case f.WordCount > 200:
		score += 15
	case f.WordCount > 100:
		score += 10
	}

	// Readability (0-20)
	r := f.ReadabilityScore
	switch {
	case r >= 60 && r <= 80:
		score += 20
	case (r >= 40 && r < 60) || (r > 80 && r <= 90):
		score += 15
	case (r >= 20 && r < 40) || (r > 90 && r <= 100):
		score += 10
	}

	// Structure (0-15)
	if f.ParagraphCount > 3 {
		score += 8
	}
	if f.SentenceCount > 10 {
		score += 7
	}

	// Rich content (0-20)
	if f.HasImage {
		score += 5
	}
	if f.HasExcerpt {
		score += 5
	}
	if f.TagCount > 2 {
		score += 5
	}
	if f.KeywordDiversity > 5 {
		score += 5
	}

	// Title length (0-10)
	t := f.TitleLength
	switch {
	case t >= 30 && t <= 70:
		score += 10
	case (t >= 20 && t < 30) || (t > 70 && t <= 100):
		score += 7
	}

	// Complexity balance (0-10)
	c := f.ComplexityScore
	switch {
	case c >= 15 && c <= 40:
		score += 10
	case (c >= 10 && c < 15) || (c > 40 && c <= 50):
		score += 7
	}

	return min(score, 100)
}

// ProcessedArticle is an article enriched for downstream batch pipelines.
type ProcessedArticle struct {
	Article       domain.Article         `json:"article"`
	EmbeddingText string                 `json:"embeddingText"`
	Features      domain.ContentFeatures `json:"features"`
}

// PreprocessBatch enriches articles with embedding text and features.
func (p *Preprocessor) PreprocessBatch(articles []domain.Article) []ProcessedArticle {
	processed := make([]ProcessedArticle, 0, len(articles))
	for _, article := range articles {
		processed = append(processed, ProcessedArticle{
			Article:       article,
			EmbeddingText: p.PreprocessForEmbedding(article.Name, article.Content, article.Tags),
			Features:      p.ExtractContentQualityFeatures(article),
		})
	}
	return processed
}
