// Package quality scores a summary against its source text.
package quality

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/analysis"
)

// Metric weights for the overall score
const (
	CoherenceWeight       = 0.25
	RelevanceWeight       = 0.30
	CompressionWeight     = 0.15
	KeywordCoverageWeight = 0.20
	SentenceQualityWeight = 0.10
)

const (
	minCompression = 0.10
	maxCompression = 0.30
	minMeaningful  = 3
)

var transitionWords = []string{
	"however", "therefore", "furthermore", "moreover", "additionally",
	"consequently", "in addition", "as a result", "for example", "for instance",
	"in contrast", "similarly", "finally", "first", "second", "thus",
}

var summarySentenceRe = regexp.MustCompile(`[^.!?]+[.!?]*`)

// Metrics holds the five sub-scores and their weighted overall score
type Metrics struct {
	Coherence        float64 `json:"coherence"`
	Relevance        float64 `json:"relevance"`
	CompressionRatio float64 `json:"compressionRatio"`
	KeywordCoverage  float64 `json:"keywordCoverage"`
	SentenceQuality  float64 `json:"sentenceQuality"`
	Overall          float64 `json:"overall"`
}

// Report bundles metrics with the derived issues and suggestions
type Report struct {
	Metrics     Metrics  `json:"metrics"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// Analyze computes every metric for summary against original
func Analyze(original, summary string, keyPhrases []string) Metrics {
	sentences := SummarySentences(summary)
	m := Metrics{
		Coherence:        Coherence(sentences, summary),
		Relevance:        Relevance(original, summary),
		CompressionRatio: Compression(original, summary),
		KeywordCoverage:  KeywordCoverage(summary, keyPhrases),
		SentenceQuality:  SentenceQuality(sentences),
	}
	m.Overall = clamp01(CoherenceWeight*m.Coherence +
		RelevanceWeight*m.Relevance +
		CompressionWeight*m.CompressionRatio +
		KeywordCoverageWeight*m.KeywordCoverage +
		SentenceQualityWeight*m.SentenceQuality)
	return m
}

// Evaluate runs Analyze and derives issues and suggestions
func Evaluate(original, summary string, keyPhrases []string) Report {
	m := Analyze(original, summary, keyPhrases)
	issues := DetectIssues(m, summary)
	return Report{
		Metrics:     m,
		Issues:      issues,
		Suggestions: Suggestions(m, issues),
	}
}

// SummarySentences splits a summary keeping terminal punctuation
func SummarySentences(summary string) []string {
	var out []string
	for _, s := range summarySentenceRe.FindAllString(summary, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Coherence rewards transitions, even sentence lengths and lexical diversity
func Coherence(sentences []string, summary string) float64 {
	if len(sentences) < 2 {
		return 0.5
	}

	lower := strings.ToLower(summary)
	score := 0.0
	for _, t := range transitionWords {
		if strings.Contains(lower, t) {
			score += 0.1
		}
	}

	lengths := make([]float64, len(sentences))
	mean := 0.0
	for i, s := range sentences {
		lengths[i] = float64(len(strings.Fields(s)))
		mean += lengths[i]
	}
	mean /= float64(len(lengths))
	if mean > 0 {
		variance := 0.0
		for _, l := range lengths {
			variance += (l - mean) * (l - mean)
		}
		variance /= float64(len(lengths))
		score += 0.3 * math.Max(0, 1-variance/(mean*mean))
	}

	words := analysis.Words(summary)
	if len(words) > 0 {
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			unique[w] = struct{}{}
		}
		score += 0.4 * float64(len(unique)) / float64(len(words))
	}

	return clamp01(score)
}

// Relevance blends vocabulary overlap with normalized frequency agreement
func Relevance(original, summary string) float64 {
	origFreq := meaningfulFrequency(original)
	sumWords := meaningfulWords(summary)
	if origFreq.Len() == 0 || len(sumWords) == 0 {
		return 0
	}
	sumFreq := analysis.NewFrequency()
	for _, w := range sumWords {
		sumFreq.Add(w)
	}

	origMax, sumMax := float64(origFreq.Max()), float64(sumFreq.Max())
	overlap, semantic := 0, 0.0
	for _, w := range sumWords {
		c := origFreq.Count(w)
		if c == 0 {
			continue
		}
		overlap++
		semantic += math.Min(float64(c)/origMax, float64(sumFreq.Count(w))/sumMax)
	}
	n := float64(len(sumWords))
	return clamp01(0.6*float64(overlap)/n + 0.4*semantic/n)
}

// Compression scores the summary/original length ratio, best within [0.10, 0.30]
func Compression(original, summary string) float64 {
	origLen := utf8.RuneCountInString(original)
	if origLen == 0 {
		return 0
	}
	ratio := float64(utf8.RuneCountInString(summary)) / float64(origLen)
	switch {
	case ratio < minCompression:
		return clamp01(ratio / minCompression)
	case ratio > maxCompression:
		return math.Max(0, 1-(ratio-maxCompression)/(1-maxCompression))
	default:
		return 1
	}
}

// KeywordCoverage is the share of key phrases found in the summary
func KeywordCoverage(summary string, keyPhrases []string) float64 {
	if len(keyPhrases) == 0 {
		return 0.5
	}
	lower := strings.ToLower(summary)
	found := 0
	for _, k := range keyPhrases {
		if strings.Contains(lower, strings.ToLower(k)) {
			found++
		}
	}
	return float64(found) / float64(len(keyPhrases))
}

// SentenceQuality averages per-sentence length and form scores
func SentenceQuality(sentences []string) float64 {
	if len(sentences) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range sentences {
		words := len(strings.Fields(s))
		switch {
		case words >= 10 && words <= 25:
			total += 1.0
		case words >= 8 && words <= 30:
			total += 0.7
		default:
			total += 0.3
		}
		if r, _ := utf8.DecodeRuneInString(s); unicode.IsUpper(r) {
			total += 0.1
		}
		if strings.ContainsAny(s[len(s)-1:], ".!?") {
			total += 0.1
		}
	}
	return clamp01(total / float64(len(sentences)))
}

func meaningfulWords(text string) []string {
	var out []string
	for _, w := range analysis.Words(text) {
		if len(w) >= minMeaningful && !analysis.IsStopWord(w) && !analysis.IsNumeric(w) {
			out = append(out, w)
		}
	}
	return out
}

func meaningfulFrequency(text string) *analysis.Frequency {
	f := analysis.NewFrequency()
	for _, w := range meaningfulWords(text) {
		f.Add(w)
	}
	return f
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
