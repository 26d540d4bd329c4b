package preprocess

import (
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/content-pulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"
)

func TestCleanHTML(t *testing.T) {
	p := New()

	t.Run("strips tags and collapses whitespace", func(t *testing.T) {
		got := p.CleanHTML("<p>Hello   <b>world</b></p>\n\n<div>again</div>")
		assert.Equal(t, "Hello world again", got)
	})

	t.Run("decodes entities", func(t *testing.T) {
		got := p.CleanHTML("fish &amp; chips &lt;cheap&gt;")
		assert.Equal(t, "fish & chips <cheap>", got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", p.CleanHTML(""))
	})
}

func TestExtractTextFeatures(t *testing.T) {
	p := New()

	t.Run("empty content yields zero features", func(t *testing.T) {
		assert.Equal(t, TextFeatures{}, p.ExtractTextFeatures("   "))
	})

	t.Run("counts words and sentences", func(t *testing.T) {
		f := p.ExtractTextFeatures("One two three. Four five six.")

		assert.Equal(t, 6, f.WordCount)
		assert.Equal(t, 2, f.SentenceCount)
		assert.Equal(t, 1, f.ParagraphCount)
		assert.InDelta(t, 3.0, f.AvgSentenceLength, 0.001)
		// Short sentences with no long words clamp to the ceiling.
		assert.InDelta(t, 100.0, f.ReadabilityScore, 0.001)
	})

	t.Run("paragraphs counted on raw content", func(t *testing.T) {
		f := p.ExtractTextFeatures("<p>first paragraph here</p>\n\nsecond paragraph here\n\n\n\nthird one")
		assert.Equal(t, 3, f.ParagraphCount)
	})

	t.Run("long words lower readability", func(t *testing.T) {
		dense := strings.Repeat("extraordinarily complicated terminology ", 20)
		f := p.ExtractTextFeatures(dense)
		assert.Less(t, f.ReadabilityScore, 100.0)
		assert.GreaterOrEqual(t, f.ReadabilityScore, 0.0)
	})

	t.Run("readability never negative", func(t *testing.T) {
		// One enormous run-on sentence of long words pushes the raw
		// formula far below zero.
		runOn := strings.Repeat("incomprehensible ", 300)
		f := p.ExtractTextFeatures(runOn)
		assert.Equal(t, 0.0, f.ReadabilityScore)
	})
}

func TestExtractKeywords(t *testing.T) {
	p := New()

	t.Run("ranks by frequency", func(t *testing.T) {
		text := "golang golang golang server server deploy"
		keywords := p.ExtractKeywords(text, 10)

		require.Len(t, keywords, 3)
		assert.Equal(t, "golang", keywords[0].Keyword)
		assert.Equal(t, 3, keywords[0].Frequency)
		assert.InDelta(t, 0.5, keywords[0].Score, 0.001)
		assert.Equal(t, "server", keywords[1].Keyword)
		assert.Equal(t, "deploy", keywords[2].Keyword)
	})

	t.Run("drops stop words and short tokens", func(t *testing.T) {
		keywords := p.ExtractKeywords("the cat sat on a big mat", 10)

		for _, kw := range keywords {
			assert.NotContains(t, []string{"the", "on", "a"}, kw.Keyword)
			assert.Greater(t, len(kw.Keyword), 2)
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		keywords := p.ExtractKeywords("alpha bravo charlie delta echo", 2)
		assert.Len(t, keywords, 2)
	})

	t.Run("empty and stop-word-only input", func(t *testing.T) {
		assert.Nil(t, p.ExtractKeywords("", 10))
		assert.Nil(t, p.ExtractKeywords("the and or but", 10))
		assert.Nil(t, p.ExtractKeywords("something", 0))
	})

	t.Run("keeps accented words whole", func(t *testing.T) {
		keywords := p.ExtractKeywords("café café café résumé naïve words", 10)

		require.Len(t, keywords, 4)
		// Tokens come back NFKD-normalized, so compare in that form.
		assert.Equal(t, norm.NFKD.String("café"), keywords[0].Keyword)
		assert.Equal(t, 3, keywords[0].Frequency)

		rest := []string{keywords[1].Keyword, keywords[2].Keyword, keywords[3].Keyword}
		assert.Contains(t, rest, norm.NFKD.String("résumé"))
		assert.Contains(t, rest, norm.NFKD.String("naïve"))
		for _, kw := range keywords {
			assert.NotContains(t, []string{"caf", "sum", "na", "ve"}, kw.Keyword)
		}
	})
}

func TestExtractEntities(t *testing.T) {
	p := New()

	t.Run("finds urls and emails", func(t *testing.T) {
		e := p.ExtractEntities("see https://example.com/post or mail support@example.com")
		assert.Equal(t, []string{"https://example.com/post"}, e.URLs)
		assert.Equal(t, []string{"support@example.com"}, e.Emails)
	})

	t.Run("finds mentions and hashtags", func(t *testing.T) {
		e := p.ExtractEntities("thanks @alice for the #golang tips")
		assert.Equal(t, []string{"alice"}, e.Mentions)
		assert.Equal(t, []string{"golang"}, e.Hashtags)
	})

	t.Run("accented mentions and hashtags", func(t *testing.T) {
		e := p.ExtractEntities("merci @rené pour le #café")
		assert.Equal(t, []string{"rené"}, e.Mentions)
		assert.Equal(t, []string{"café"}, e.Hashtags)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, domain.Entities{}, p.ExtractEntities(""))
	})
}

func TestPreprocessForEmbedding(t *testing.T) {
	p := New()

	t.Run("repeats title and tags", func(t *testing.T) {
		got := p.PreprocessForEmbedding("Big News", "some body text", []string{"tech", "go"})

		assert.Equal(t, 3, strings.Count(got, "Big News"))
		assert.Equal(t, 2, strings.Count(got, "#tech #go"))
		assert.Contains(t, got, "some body text")
	})

	t.Run("truncates long content in the middle", func(t *testing.T) {
		long := strings.Repeat("x", 3000)
		got := p.PreprocessForEmbedding("", long, nil)

		assert.Contains(t, got, " ... ")
		assert.Len(t, got, 1500+5+500)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", p.PreprocessForEmbedding("", "", nil))
	})
}

func TestContentHash(t *testing.T) {
	p := New()

	t.Run("deterministic and short", func(t *testing.T) {
		h1 := p.ContentHash("Hello World")
		h2 := p.ContentHash("Hello World")
		assert.Equal(t, h1, h2)
		assert.Len(t, h1, 16)
	})

	t.Run("normalizes case and markup", func(t *testing.T) {
		assert.Equal(t, p.ContentHash("hello world"), p.ContentHash("  HELLO <b>world</b>  "))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", p.ContentHash(""))
	})
}

func TestEstimateReadingTime(t *testing.T) {
	p := New()

	assert.Equal(t, 0, p.EstimateReadingTime(""))
	assert.Equal(t, 1, p.EstimateReadingTime("just a few words"))
	assert.Equal(t, 2, p.EstimateReadingTime(strings.Repeat("word ", 400)))
}

func TestCategorizeContentLength(t *testing.T) {
	assert.Equal(t, domain.ContentLengthShort, CategorizeContentLength(0))
	assert.Equal(t, domain.ContentLengthShort, CategorizeContentLength(299))
	assert.Equal(t, domain.ContentLengthMedium, CategorizeContentLength(300))
	assert.Equal(t, domain.ContentLengthMedium, CategorizeContentLength(1499))
	assert.Equal(t, domain.ContentLengthLong, CategorizeContentLength(1500))
}
