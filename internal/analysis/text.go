// Package analysis tokenizes normalized document text into sentences and
// words and extracts candidate keywords. All functions are pure.
package analysis

import (
	"regexp"
	"sort"
	"strings"
)

const (
	minSentenceLength = 15
	minKeywordLength  = 4
	keywordCandidates = 12
	maxKeywords       = 8
)

var (
	sentenceBoundaryRe = regexp.MustCompile(`[.!?]+`)
	nonWordRe          = regexp.MustCompile(`[^\w]+`)
	numericRe          = regexp.MustCompile(`^[0-9]+$`)
	whitespaceRe       = regexp.MustCompile(`\s+`)
	disallowedRe       = regexp.MustCompile(`[^\w\s.,!?;:()\-"']`)

	academicSuffixRe = regexp.MustCompile(`(tion|sion|ment|ness|ity|ism|ogy|ics)$`)
	academicStemRe   = regexp.MustCompile(`analysis|research|study|method|theory|concept`)
)

// Normalize collapses whitespace and strips characters outside the
// allowed word/punctuation set.
func Normalize(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = disallowedRe.ReplaceAllString(text, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// SplitSentences splits text on runs of terminal punctuation and drops
// fragments of 15 characters or fewer. Document order is preserved.
func SplitSentences(text string) []string {
	parts := sentenceBoundaryRe.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len([]rune(p)) > minSentenceLength {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// Frequency is a word count table that remembers first-seen order
type Frequency struct {
	counts map[string]int
	order  []string
}

// NewFrequency creates an empty table
func NewFrequency() *Frequency {
	return &Frequency{counts: make(map[string]int)}
}

// Add increments the count for word
func (f *Frequency) Add(word string) {
	if _, ok := f.counts[word]; !ok {
		f.order = append(f.order, word)
	}
	f.counts[word]++
}

// Count returns the count for word
func (f *Frequency) Count(word string) int {
	return f.counts[word]
}

// Words returns all words in first-seen order
func (f *Frequency) Words() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Len returns the number of distinct words
func (f *Frequency) Len() int {
	return len(f.order)
}

// Max returns the highest count in the table, 0 when empty
func (f *Frequency) Max() int {
	max := 0
	for _, c := range f.counts {
		if c > max {
			max = c
		}
	}
	return max
}

// CleanWord lowercases a token and strips non-word characters
func CleanWord(token string) string {
	return nonWordRe.ReplaceAllString(strings.ToLower(token), "")
}

// Words lowercases text, splits on whitespace and strips non-word
// characters, dropping tokens that become empty.
func Words(text string) []string {
	fields := strings.Fields(text)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if w := CleanWord(f); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// IsNumeric reports whether word consists only of digits
func IsNumeric(word string) bool {
	return numericRe.MatchString(word)
}

// WordFrequency counts words of at least four characters that are neither
// stop words nor purely numeric.
func WordFrequency(text string) *Frequency {
	freq := NewFrequency()
	for _, w := range Words(text) {
		if len(w) < minKeywordLength || IsStopWord(w) || IsNumeric(w) {
			continue
		}
		freq.Add(w)
	}
	return freq
}

// IsAcademicKeyword reports whether a keyword looks like an academic term
func IsAcademicKeyword(word string) bool {
	return academicSuffixRe.MatchString(word) || academicStemRe.MatchString(word)
}

// TopKeywords ranks repeated words by frequency and promotes academic
// terms to the front, returning at most eight.
func TopKeywords(freq *Frequency) []string {
	candidates := make([]string, 0, freq.Len())
	for _, w := range freq.Words() {
		if freq.Count(w) >= 2 {
			candidates = append(candidates, w)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return freq.Count(candidates[i]) > freq.Count(candidates[j])
	})
	if len(candidates) > keywordCandidates {
		candidates = candidates[:keywordCandidates]
	}

	ranked := make([]string, 0, len(candidates))
	for _, w := range candidates {
		if IsAcademicKeyword(w) {
			ranked = append(ranked, w)
		}
	}
	for _, w := range candidates {
		if !IsAcademicKeyword(w) {
			ranked = append(ranked, w)
		}
	}

	seen := make(map[string]bool, len(ranked))
	out := make([]string, 0, maxKeywords)
	for _, w := range ranked {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if len(out) == maxKeywords {
			break
		}
	}
	return out
}

// Analysis bundles the tokenization results consumed by the summarizer
type Analysis struct {
	Sentences []string
	Frequency *Frequency
	Keywords  []string
}

// Analyze runs sentence splitting, word frequency and keyword extraction
func Analyze(text string) *Analysis {
	freq := WordFrequency(text)
	return &Analysis{
		Sentences: SplitSentences(text),
		Frequency: freq,
		Keywords:  TopKeywords(freq),
	}
}
