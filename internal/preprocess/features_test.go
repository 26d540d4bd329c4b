package preprocess

import (
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/content-pulse/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRubricScore(t *testing.T) {
	t.Run("maximal features reach exactly 100", func(t *testing.T) {
		f := domain.ContentFeatures{
			WordCount:        1200,
			ReadabilityScore: 70,
			ParagraphCount:   5,
			SentenceCount:    15,
			HasImage:         true,
			HasExcerpt:       true,
			TagCount:         4,
			KeywordDiversity: 8,
			TitleLength:      50,
			ComplexityScore:  30,
		}
		assert.Equal(t, 100.0, RubricScore(f))
	})

	t.Run("empty features score zero", func(t *testing.T) {
		assert.Equal(t, 0.0, RubricScore(domain.ContentFeatures{}))
	})

	t.Run("middle bands award partial points", func(t *testing.T) {
		f := domain.ContentFeatures{
			WordCount:        250, // 15
			ReadabilityScore: 85,  // 15
			TitleLength:      25,  // 7
			ComplexityScore:  45,  // 7
		}
		assert.Equal(t, 44.0, RubricScore(f))
	})

	t.Run("word count boundaries", func(t *testing.T) {
		assert.Equal(t, 0.0, RubricScore(domain.ContentFeatures{WordCount: 100}))
		assert.Equal(t, 10.0, RubricScore(domain.ContentFeatures{WordCount: 101}))
		assert.Equal(t, 20.0, RubricScore(domain.ContentFeatures{WordCount: 501}))
		assert.Equal(t, 25.0, RubricScore(domain.ContentFeatures{WordCount: 1001}))
	})
}

func TestExtractContentQualityFeatures(t *testing.T) {
	p := New()

	article := domain.Article{
		Name:    "A Practical Guide to Production Observability",
		Content: strings.Repeat("Observability matters for every service. Metrics and traces explain failures quickly.\n\n", 10),
		Excerpt: "Why observability matters.",
		Tags:    []string{"devops", "observability", "monitoring"},
		ImageID: "img-1",
	}

	f := p.ExtractContentQualityFeatures(article)

	assert.Equal(t, 110, f.WordCount)
	assert.Equal(t, 20, f.SentenceCount)
	assert.Equal(t, 10, f.ParagraphCount)
	assert.True(t, f.HasImage)
	assert.True(t, f.HasExcerpt)
	assert.Equal(t, 3, f.TagCount)
	assert.Equal(t, len(article.Name), f.TitleLength)
	assert.Equal(t, domain.ContentLengthShort, f.ContentLengthCategory)
	assert.Len(t, f.ContentHash, 16)
	assert.Equal(t, 1, f.ReadingTimeMinutes)
	assert.Greater(t, f.QualityScore, 0.0)
	assert.LessOrEqual(t, f.QualityScore, 100.0)
}

func TestPreprocessBatch(t *testing.T) {
	p := New()

	articles := []domain.Article{
		{Name: "First", Content: "alpha beta gamma", Tags: []string{"go"}},
		{Name: "Second", Content: "delta epsilon zeta"},
	}

	processed := p.PreprocessBatch(articles)

	assert.Len(t, processed, 2)
	assert.Equal(t, "First", processed[0].Article.Name)
	assert.Contains(t, processed[0].EmbeddingText, "#go")
	assert.Equal(t, 3, processed[1].Features.WordCount)
}
