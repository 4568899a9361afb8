package quality

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnalyzeEmptyInputs(t *testing.T) {
	m := Analyze("", "", nil)
	if m.Coherence != 0.5 || m.Relevance != 0 || m.CompressionRatio != 0 || m.KeywordCoverage != 0.5 || m.SentenceQuality != 0 {
		t.Fatalf("unexpected metrics %+v", m)
	}
	if !approx(m.Overall, 0.225) {
		t.Fatalf("Overall = %v, want 0.225", m.Overall)
	}
}

func TestAnalyzeStaysInRange(t *testing.T) {
	inputs := [][2]string{
		{"", "Unable to generate summary."},
		{"x", strings.Repeat("word ", 500)},
		{strings.Repeat("Finally, however, thus. ", 50), "However. Thus. Finally. First. Second."},
		{"!!!???...", "..."},
	}
	for _, in := range inputs {
		m := Analyze(in[0], in[1], []string{"word", "finally"})
		for name, v := range map[string]float64{
			"coherence": m.Coherence, "relevance": m.Relevance, "compression": m.CompressionRatio,
			"coverage": m.KeywordCoverage, "sentence": m.SentenceQuality, "overall": m.Overall,
		} {
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Errorf("%s = %v for %q", name, v, in[1])
			}
		}
	}
}

func TestCompression(t *testing.T) {
	original := strings.Repeat("a", 100)
	tests := []struct {
		summary string
		want    float64
	}{
		{strings.Repeat("a", 20), 1},
		{strings.Repeat("a", 10), 1},
		{strings.Repeat("a", 30), 1},
		{strings.Repeat("a", 5), 0.5},
		{strings.Repeat("a", 65), 0.5},
		{strings.Repeat("a", 200), 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := Compression(original, tt.summary); !approx(got, tt.want) {
			t.Errorf("Compression(len %d) = %v, want %v", len(tt.summary), got, tt.want)
		}
	}
	if got := Compression("", "anything"); got != 0 {
		t.Errorf("empty original = %v", got)
	}
}

func TestKeywordCoverage(t *testing.T) {
	if got := KeywordCoverage("Alpha beta", []string{"alpha", "gamma"}); got != 0.5 {
		t.Errorf("coverage = %v, want 0.5", got)
	}
	if got := KeywordCoverage("anything", nil); got != 0.5 {
		t.Errorf("default coverage = %v, want 0.5", got)
	}
}

func TestSentenceQuality(t *testing.T) {
	sentences := []string{"This sentence has exactly ten words in it right now.", "short one"}
	if got := SentenceQuality(sentences); !approx(got, 0.75) {
		t.Fatalf("SentenceQuality = %v, want 0.75", got)
	}
}

func TestCoherence(t *testing.T) {
	summary := "However the cat sat. Thus the dog ran."
	if got := Coherence(SummarySentences(summary), summary); !approx(got, 0.85) {
		t.Fatalf("Coherence = %v, want 0.85", got)
	}
	if got := Coherence([]string{"Only one."}, "Only one."); got != 0.5 {
		t.Fatalf("single sentence = %v, want 0.5", got)
	}
}

func TestRelevance(t *testing.T) {
	original := "Solar panels convert sunlight. Solar energy grows."
	if got := Relevance(original, "Solar panels."); !approx(got, 0.9) {
		t.Errorf("Relevance = %v, want 0.9", got)
	}
	if got := Relevance(original, "Quantum chromodynamics."); got != 0 {
		t.Errorf("unrelated = %v, want 0", got)
	}
	if got := Relevance("", "Solar panels."); got != 0 {
		t.Errorf("empty original = %v, want 0", got)
	}
}

func TestSummarySentencesKeepsPunctuation(t *testing.T) {
	got := SummarySentences("First point. Second point!  Third")
	want := []string{"First point.", "Second point!", "Third"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SummarySentences = %#v", got)
	}
}

func TestDetectIssuesAndSuggestions(t *testing.T) {
	good := Metrics{Coherence: 0.9, Relevance: 0.9, CompressionRatio: 1, KeywordCoverage: 1, SentenceQuality: 1}
	if issues := DetectIssues(good, "One sentence here. Two sentence here. Three sentence here."); len(issues) != 0 {
		t.Fatalf("issues = %v", issues)
	}

	bad := Metrics{Coherence: 0.1, Relevance: 0.9, CompressionRatio: 1, KeywordCoverage: 0.1, SentenceQuality: 1}
	issues := DetectIssues(bad, "Unable to generate summary.")
	want := []string{IssueLowCoherence, IssueLowKeywordCoverage, IssueTooFewSentences, IssueErrorText}
	if !reflect.DeepEqual(issues, want) {
		t.Fatalf("issues = %v, want %v", issues, want)
	}

	suggestions := Suggestions(bad, issues)
	if len(suggestions) != 4 || suggestions[0] != "Increase the weight of transition-bearing sentences" {
		t.Fatalf("suggestions = %v", suggestions)
	}
}

func TestEvaluate(t *testing.T) {
	r := Evaluate("", "", nil)
	if len(r.Issues) == 0 || len(r.Suggestions) == 0 {
		t.Fatalf("report = %+v", r)
	}
}
