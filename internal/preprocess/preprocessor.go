package preprocess

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/DjordjeVuckovic/content-pulse/internal/domain"
	"github.com/DjordjeVuckovic/content-pulse/pkg/utils"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultWordsPerMinute drives reading-time estimates.
	DefaultWordsPerMinute = 200

	// LongWordMinChars marks a word as "long" for the readability formula.
	LongWordMinChars = 7

	contentHashLen = 16
)

var (
	htmlTagPattern     = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
	sentenceSplit      = regexp.MustCompile(`[.!?]+`)
	// \w in RE2 is ASCII-only, so word classes are spelled out with
	// Unicode properties to keep accented letters intact.
	punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	numberPattern      = regexp.MustCompile(`\p{N}+`)

	urlPattern     = regexp.MustCompile(`http[s]?://(?:[a-zA-Z0-9$\-_@.&+!*(),]|(?:%[0-9a-fA-F]{2}))+`)
	emailPattern   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	mentionPattern = regexp.MustCompile(`@([\p{L}\p{N}_]+)`)
	hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
)

// stopWords is a fixed set of common English words excluded from
// keyword extraction.
var stopWords = func() map[string]struct{} {
	words := []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with",
		"by", "from", "up", "about", "into", "through", "during", "before", "after",
		"above", "below", "between", "among", "this", "that", "these", "those", "i",
		"me", "my", "myself", "we", "our", "ours", "ourselves", "you", "your", "yours",
		"yourself", "yourselves", "he", "him", "his", "himself", "she", "her", "hers",
		"herself", "it", "its", "itself", "they", "them", "their", "theirs", "themselves",
		"what", "which", "who", "whom", "am", "is",
		"are", "was", "were", "be", "been", "being", "have", "has", "had", "having",
		"do", "does", "did", "doing", "would", "should", "could", "can", "will", "may",
		"might", "must", "shall",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()

// TextFeatures are the normalized lexical statistics of one content string.
type TextFeatures struct {
	WordCount         int
	SentenceCount     int
	ParagraphCount    int
	AvgSentenceLength float64
	ReadabilityScore  float64
	ComplexityScore   float64
	CharacterCount    int
	UniqueWordRatio   float64
}

// Preprocessor turns raw HTML/text article content into features,
// keywords, entities and embedding input. All methods are pure.
type Preprocessor struct{}

func New() *Preprocessor {
	return &Preprocessor{}
}

// CleanHTML decodes HTML entities, strips tags and collapses whitespace.
func (p *Preprocessor) CleanHTML(text string) string {
	if text == "" {
		return ""
	}
	text = html.UnescapeString(text)
	text = htmlTagPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ExtractTextFeatures computes lexical statistics for raw content.
// Empty content yields an all-zero feature set, never an error.
func (p *Preprocessor) ExtractTextFeatures(content string) TextFeatures {
	if strings.TrimSpace(content) == "" {
		return TextFeatures{}
	}

	clean := p.CleanHTML(content)
	words := strings.Fields(clean)
	wordCount := len(words)

	sentenceCount := 0
	for _, s := range sentenceSplit.Split(clean, -1) {
		if strings.TrimSpace(s) != "" {
			sentenceCount++
		}
	}

	// Paragraphs are counted on the raw content since HTML cleaning
	// collapses the newlines that delimit them.
	paragraphCount := 0
	for _, para := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(para) != "" {
			paragraphCount++
		}
	}

	avgSentenceLength := float64(wordCount) / float64(max(sentenceCount, 1))

	longWords := 0
	for _, w := range words {
		if utf8.RuneCountInString(w) >= LongWordMinChars {
			longWords++
		}
	}
	longWordDensity := float64(longWords) / float64(max(wordCount, 1))

	// Flesch-like approximation with long-word density standing in for
	// syllable counts.
	readability := 206.835 - 1.015*avgSentenceLength - 84.6*longWordDensity
	readability = math.Max(0, math.Min(100, readability))

	unique := make(map[string]struct{})
	for _, w := range words {
		if isAlphabetic(w) {
			unique[strings.ToLower(w)] = struct{}{}
		}
	}
	uniqueCount := len(unique)
	complexity := float64(uniqueCount) / float64(max(wordCount, 1)) * 100

	return TextFeatures{
		WordCount:         wordCount,
		SentenceCount:     sentenceCount,
		ParagraphCount:    paragraphCount,
		AvgSentenceLength: utils.RoundDecimal(avgSentenceLength, 2),
		ReadabilityScore:  utils.RoundDecimal(readability, 2),
		ComplexityScore:   utils.RoundDecimal(complexity, 2),
		CharacterCount:    utf8.RuneCountInString(clean),
		UniqueWordRatio:   utils.RoundDecimal(float64(uniqueCount)/float64(max(wordCount, 1)), 3),
	}
}

// ExtractKeywords returns up to maxKeywords frequency-ranked tokens.
// Stop words and tokens shorter than three characters are dropped.
// Equal frequencies keep first-occurrence order.
func (p *Preprocessor) ExtractKeywords(text string, maxKeywords int) []domain.Keyword {
	if text == "" || maxKeywords <= 0 {
		return nil
	}

	clean := strings.ToLower(p.CleanHTML(text))
	clean = punctuationPattern.ReplaceAllString(clean, " ")
	clean = numberPattern.ReplaceAllString(clean, " ")
	clean = norm.NFKD.String(clean)

	counts := make(map[string]int)
	var order []string
	total := 0
	for _, word := range strings.Fields(clean) {
		if utf8.RuneCountInString(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
		total++
	}
	if total == 0 {
		return nil
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}

	keywords := make([]domain.Keyword, 0, len(order))
	for _, word := range order {
		keywords = append(keywords, domain.Keyword{
			Keyword:   word,
			Frequency: counts[word],
			Score:     float64(counts[word]) / float64(total),
		})
	}
	return keywords
}

// ExtractEntities pattern-matches URLs, emails, @mentions and #hashtags.
// No validation happens beyond the pattern itself.
func (p *Preprocessor) ExtractEntities(text string) domain.Entities {
	var entities domain.Entities
	if text == "" {
		return entities
	}

	entities.URLs = urlPattern.FindAllString(text, -1)
	entities.Emails = emailPattern.FindAllString(text, -1)
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		entities.Mentions = append(entities.Mentions, m[1])
	}
	for _, m := range hashtagPattern.FindAllStringSubmatch(text, -1) {
		entities.Hashtags = append(entities.Hashtags, m[1])
	}
	return entities
}

// PreprocessForEmbedding builds the text fed to embedding generation.
// The title is repeated to bias the embedding toward it, long content is
// middle-truncated and tags are appended as weighted hashtag tokens.
func (p *Preprocessor) PreprocessForEmbedding(title, content string, tags []string) string {
	if title == "" && content == "" {
		return ""
	}

	cleanTitle := p.CleanHTML(title)
	cleanContent := p.CleanHTML(content)

	var parts []string
	if cleanTitle != "" {
		for i := 0; i < 3; i++ {
			parts = append(parts, cleanTitle)
		}
	}

	if cleanContent != "" {
		if runes := []rune(cleanContent); len(runes) > 2000 {
			cleanContent = string(runes[:1500]) + " ... " + string(runes[len(runes)-500:])
		}
		parts = append(parts, cleanContent)
	}

	if len(tags) > 0 {
		tagTokens := make([]string, len(tags))
		for i, tag := range tags {
			tagTokens[i] = fmt.Sprintf("#%s", tag)
		}
		tagText := strings.Join(tagTokens, " ")
		parts = append(parts, tagText, tagText)
	}

	return strings.Join(parts, " ")
}

// ContentHash returns a short deterministic hash of the normalized
// content, used for change detection.
func (p *Preprocessor) ContentHash(content string) string {
	if content == "" {
		return ""
	}
	normalized := strings.TrimSpace(strings.ToLower(p.CleanHTML(content)))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:contentHashLen]
}

// EstimateReadingTime estimates reading minutes at DefaultWordsPerMinute,
// never below one minute for non-empty content.
func (p *Preprocessor) EstimateReadingTime(content string) int {
	if content == "" {
		return 0
	}
	wordCount := len(strings.Fields(p.CleanHTML(content)))
	return max(1, int(math.Round(float64(wordCount)/DefaultWordsPerMinute)))
}

// CategorizeContentLength groups word counts into read-effort buckets.
func CategorizeContentLength(wordCount int) domain.ContentLengthCategory {
	switch {
	case wordCount < 300:
		return domain.ContentLengthShort
	case wordCount < 1500:
		return domain.ContentLengthMedium
	default:
		return domain.ContentLengthLong
	}
}

func isAlphabetic(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
