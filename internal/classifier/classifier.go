package classifier

import (
	"sort"
	"strings"
	"unicode"
)

// Classification thresholds. A message qualifies either through explicit
// hiring language at the lower bar, or through sheer density of job-adjacent
// vocabulary at the higher one.
const (
	indicatorThreshold  = 0.10
	confidenceThreshold = 0.15
)

// Score is the result of classifying one message
type Score struct {
	// CategoryScores holds the weighted contribution of each category
	CategoryScores map[Category]float64 `json:"category_scores"`
	// Confidence is the normalized score in [0, 1]
	Confidence float64 `json:"confidence"`
	IsJobPost  bool    `json:"is_job_post"`
	// Tags lists the matched keywords per category, sorted for stable output
	Tags map[Category][]string `json:"tags"`
}

// Classifier scores message text against the weighted lexicon. Classify is a
// pure function: identical text and lexicon always produce identical output,
// so stored messages can be re-scored at any time.
type Classifier struct {
	normalization float64
	// phrases maps each category to its keywords pre-split into tokens
	phrases map[Category][][]string
	// keywords keeps the original keyword strings aligned with phrases
	keywords map[Category][]string
}

// New builds a classifier over the given lexicon. normalization is the fixed
// calibration constant dividing the raw weighted score; values <= 0 fall back
// to the default of 12.
func New(lexicon Lexicon, normalization float64) *Classifier {
	if normalization <= 0 {
		normalization = 12
	}
	c := &Classifier{
		normalization: normalization,
		phrases:       make(map[Category][][]string, len(lexicon)),
		keywords:      make(map[Category][]string, len(lexicon)),
	}
	for category, words := range lexicon {
		for _, keyword := range words {
			tokens := tokenize(keyword)
			if len(tokens) == 0 {
				continue
			}
			c.phrases[category] = append(c.phrases[category], tokens)
			c.keywords[category] = append(c.keywords[category], strings.ToLower(keyword))
		}
	}
	return c
}

// Classify scores one message. Empty or malformed text degrades to a zero
// score rather than an error.
func (c *Classifier) Classify(text string) Score {
	score := Score{
		CategoryScores: make(map[Category]float64, len(categoryWeights)),
		Tags:           make(map[Category][]string),
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return score
	}

	raw := 0.0
	indicatorHits := 0
	for category, phrases := range c.phrases {
		hits := 0
		for i, phrase := range phrases {
			// Each keyword counts at most once per message
			if containsPhrase(tokens, phrase) {
				hits++
				score.Tags[category] = append(score.Tags[category], c.keywords[category][i])
			}
		}
		if hits == 0 {
			continue
		}
		sort.Strings(score.Tags[category])
		weighted := float64(hits) * categoryWeights[category]
		score.CategoryScores[category] = weighted
		raw += weighted
		if category == CategoryJobIndicator {
			indicatorHits = hits
		}
	}

	confidence := raw / c.normalization
	if confidence > 1 {
		confidence = 1
	}
	score.Confidence = confidence
	score.IsJobPost = (confidence > indicatorThreshold && indicatorHits > 0) ||
		confidence > confidenceThreshold
	return score
}

// tokenize lowercases text and splits it into word tokens. Matching on whole
// tokens keeps substrings inside larger words from false-positives ("work"
// must not match "framework").
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// containsPhrase reports whether phrase occurs as a consecutive token run
func containsPhrase(tokens, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return false
	}
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		match := true
		for j, word := range phrase {
			if tokens[i+j] != word {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
