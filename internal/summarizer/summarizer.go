// Package summarizer builds extractive summaries by scoring sentences with
// a tunable weight vector and keeping the best ones in document order.
package summarizer

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/analysis"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/apperr"
)

// Algorithm tags every summary produced by this package
const Algorithm = "heuristic-extractive-v1"

// Level selects the target summary length
type Level string

const (
	LevelStudent   Level = "student"
	LevelProfessor Level = "professor"
)

// ParseLevel validates a level string; empty selects student
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case "", LevelStudent:
		return LevelStudent, nil
	case LevelProfessor:
		return LevelProfessor, nil
	default:
		return "", apperr.Input("parse level", "unknown summary level %q", s)
	}
}

var (
	ErrEmptyInput       = apperr.New(apperr.KindEmptyInput, "summarize", errors.New("unable to generate summary: no sentences found"))
	ErrNoSalientContent = apperr.New(apperr.KindNoSalientContent, "summarize", errors.New("unable to generate summary: no salient sentences"))
)

var importancePhrases = []string{
	"in conclusion", "key finding", "research shows", "results indicate", "in summary",
	"importantly", "significant", "we found", "evidence suggests", "demonstrates",
	"the main", "notably", "to summarize",
}

var questionWords = []string{"what", "why", "how", "when", "where", "who", "which"}

var academicTermRe = regexp.MustCompile(`(tion|sion|ment|ness|ity|ism|ogy|ics)$`)

// Sentence is a scored candidate sentence
type Sentence struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Result is the output of a successful summarization
type Result struct {
	Text       string     `json:"text"`
	KeyPhrases []string   `json:"keyPhrases"`
	Selected   []Sentence `json:"selected"`
	Total      int        `json:"totalSentences"`
	Level      Level      `json:"level"`
	Algorithm  string     `json:"algorithm"`
}

// Summarize scores every sentence of text under w and returns the top
// sentences for level in original order. It returns ErrEmptyInput or
// ErrNoSalientContent when nothing can be selected.
func Summarize(text string, w Weights, level Level) (*Result, error) {
	a := analysis.Analyze(text)
	if len(a.Sentences) == 0 {
		return nil, ErrEmptyInput
	}

	scored := ScoreSentences(a.Sentences, a.Keywords, w)

	salient := make([]Sentence, 0, len(scored))
	for _, s := range scored {
		if s.Score > 0 {
			salient = append(salient, s)
		}
	}
	if len(salient) == 0 {
		return nil, ErrNoSalientContent
	}

	sort.SliceStable(salient, func(i, j int) bool {
		if salient[i].Score != salient[j].Score {
			return salient[i].Score > salient[j].Score
		}
		return salient[i].Index < salient[j].Index
	})
	if k := TargetCount(len(a.Sentences), level); len(salient) > k {
		salient = salient[:k]
	}
	sort.SliceStable(salient, func(i, j int) bool {
		return salient[i].Index < salient[j].Index
	})

	texts := make([]string, len(salient))
	for i, s := range salient {
		texts[i] = s.Text
	}

	keyPhrases := a.Keywords
	if len(keyPhrases) > 8 {
		keyPhrases = keyPhrases[:8]
	}

	return &Result{
		Text:       strings.Join(texts, ". ") + ".",
		KeyPhrases: keyPhrases,
		Selected:   salient,
		Total:      len(a.Sentences),
		Level:      level,
		Algorithm:  Algorithm,
	}, nil
}

// TargetCount returns how many sentences a summary of n sentences keeps
func TargetCount(n int, level Level) int {
	if level == LevelProfessor {
		return clampInt(int(math.Floor(0.2*float64(n))), 4, 12)
	}
	return clampInt(int(math.Floor(0.15*float64(n))), 3, 8)
}

// ScoreSentences computes the additive score of each sentence
func ScoreSentences(sentences, keywords []string, w Weights) []Sentence {
	keywordSet := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		keywordSet[k] = struct{}{}
	}

	n := float64(len(sentences))
	out := make([]Sentence, len(sentences))
	for i, text := range sentences {
		out[i] = Sentence{Index: i, Text: text, Score: scoreSentence(text, float64(i), n, keywordSet, w)}
	}
	return out
}

func scoreSentence(text string, i, n float64, keywords map[string]struct{}, w Weights) float64 {
	score := 0.0

	if i < 0.15*n {
		score += w.Position
	}
	if i > 0.85*n {
		score += 0.75 * w.Position
	}
	if i >= 0.4*n && i <= 0.6*n {
		score += 0.5 * w.Position
	}

	wordCount := len(strings.Fields(text))
	if wordCount >= 10 && wordCount <= 30 {
		score += w.Length
	}
	if wordCount >= 15 && wordCount <= 25 {
		score += 0.67 * w.Length
	}

	words := analysis.Words(text)
	for _, word := range words {
		if _, ok := keywords[word]; ok {
			score += w.Keyword
		}
		if academicTermRe.MatchString(word) {
			score += w.AcademicTerm
		}
	}

	lower := strings.ToLower(text)
	for _, phrase := range importancePhrases {
		if strings.Contains(lower, phrase) {
			score += w.ImportancePhrase
		}
	}
	for _, q := range questionWords {
		if strings.Contains(lower, q) {
			score += w.Question
		}
	}

	return score
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// String renders a short description used in logs
func (r *Result) String() string {
	return fmt.Sprintf("%d/%d sentences (%s)", len(r.Selected), r.Total, r.Level)
}
