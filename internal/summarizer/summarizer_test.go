package summarizer

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/analysis"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/apperr"
)

func sampleText() string {
	topics := []string{"climate adaptation", "urban mobility", "water management", "energy storage", "public health"}
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		topic := topics[i%len(topics)]
		switch i % 4 {
		case 0:
			fmt.Fprintf(&sb, "Research shows that %s policy requires careful evaluation of regional implementation in sentence %d. ", topic, i)
		case 1:
			fmt.Fprintf(&sb, "The committee discussed %s at length during meeting number %d. ", topic, i)
		case 2:
			fmt.Fprintf(&sb, "Why does %s matter for cities and their long term development plans in case %d? ", topic, i)
		default:
			fmt.Fprintf(&sb, "Short note on %s item %d. ", topic, i)
		}
	}
	return sb.String()
}

func TestSummarizeExample(t *testing.T) {
	text := "This is the first important sentence about research. A short one. " +
		"Finally, in conclusion, the study reveals significant findings."

	res, err := Summarize(text, DefaultWeights(), LevelStudent)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := "This is the first important sentence about research. Finally, in conclusion, the study reveals significant findings."
	if res.Text != want {
		t.Fatalf("Text = %q, want %q", res.Text, want)
	}
	if res.Algorithm != Algorithm {
		t.Errorf("Algorithm = %q", res.Algorithm)
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	_, err := Summarize("Too short. Nope!", DefaultWeights(), LevelStudent)
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
	if !apperr.Is(err, apperr.KindEmptyInput) {
		t.Fatalf("kind = %q", apperr.KindOf(err))
	}
}

func TestSummarizeNoSalientContent(t *testing.T) {
	_, err := Summarize(sampleText(), Weights{}, LevelStudent)
	if !errors.Is(err, ErrNoSalientContent) {
		t.Fatalf("err = %v, want ErrNoSalientContent", err)
	}
}

func TestSummarizeSelectsOriginalSentencesInOrder(t *testing.T) {
	text := sampleText()
	original := analysis.SplitSentences(text)

	for _, level := range []Level{LevelStudent, LevelProfessor} {
		res, err := Summarize(text, DefaultWeights(), level)
		if err != nil {
			t.Fatalf("%s: %v", level, err)
		}
		if got, want := len(res.Selected), TargetCount(len(original), level); got != want {
			t.Errorf("%s: selected %d, want %d", level, got, want)
		}
		last := -1
		for _, s := range res.Selected {
			if s.Index <= last {
				t.Errorf("%s: index %d after %d", level, s.Index, last)
			}
			last = s.Index
			if original[s.Index] != s.Text {
				t.Errorf("%s: sentence %d not from original", level, s.Index)
			}
			if !strings.Contains(res.Text, s.Text) {
				t.Errorf("%s: summary text missing %q", level, s.Text)
			}
		}
		if !strings.HasSuffix(res.Text, ".") {
			t.Errorf("%s: missing trailing period", level)
		}
	}
}

func TestSummarizeIsDeterministic(t *testing.T) {
	text := sampleText()
	w := Weights{Position: 1.2, Length: 0.9, Keyword: 0.4, ImportancePhrase: 1.7, AcademicTerm: 0.2, Question: 0.6}
	a, err := Summarize(text, w, LevelProfessor)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Summarize(text, w, LevelProfessor)
	if err != nil {
		t.Fatal(err)
	}
	if a.Text != b.Text || strings.Join(a.KeyPhrases, ",") != strings.Join(b.KeyPhrases, ",") {
		t.Fatal("summaries differ for identical input")
	}
}

func TestTargetCount(t *testing.T) {
	tests := []struct {
		n     int
		level Level
		want  int
	}{
		{2, LevelStudent, 3},
		{40, LevelStudent, 6},
		{100, LevelStudent, 8},
		{2, LevelProfessor, 4},
		{40, LevelProfessor, 8},
		{100, LevelProfessor, 12},
	}
	for _, tt := range tests {
		if got := TargetCount(tt.n, tt.level); got != tt.want {
			t.Errorf("TargetCount(%d, %s) = %d, want %d", tt.n, tt.level, got, tt.want)
		}
	}
}

func TestScoreSentencesComponents(t *testing.T) {
	only := func(w Weights) float64 {
		s := ScoreSentences([]string{"What is the key finding of this evaluation study"}, []string{"evaluation"}, w)
		return s[0].Score
	}
	// index 0 of 1 hits only the leading position band
	if got := only(Weights{Position: 1}); got != 1 {
		t.Errorf("position = %v, want 1", got)
	}
	if got := only(Weights{Length: 1}); got != 0 {
		t.Errorf("length = %v, want 0 (9 words)", got)
	}
	if got := only(Weights{Keyword: 1}); got != 1 {
		t.Errorf("keyword = %v, want 1", got)
	}
	if got := only(Weights{ImportancePhrase: 1}); got != 1 {
		t.Errorf("importance = %v, want 1", got)
	}
	if got := only(Weights{AcademicTerm: 1}); got != 1 {
		t.Errorf("academic = %v, want 1", got)
	}
	if got := only(Weights{Question: 1}); got != 1 {
		t.Errorf("question = %v, want 1", got)
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel(""); err != nil || l != LevelStudent {
		t.Errorf("empty: %v %v", l, err)
	}
	if l, err := ParseLevel(" Professor "); err != nil || l != LevelProfessor {
		t.Errorf("professor: %v %v", l, err)
	}
	if _, err := ParseLevel("phd"); !apperr.Is(err, apperr.KindInput) {
		t.Errorf("phd: %v", err)
	}
}
