package analysis

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	in := "Hello\t\tworld!  This   is\n\na <test> & more…"
	want := "Hello world! This is a test more"
	if got := Normalize(in); got != want {
		t.Fatalf("Normalize = %q, want %q", got, want)
	}
}

func TestSplitSentences(t *testing.T) {
	text := "This is the first important sentence about research. A short one. " +
		"Finally, in conclusion, the study reveals significant findings!!! Ok?"
	got := SplitSentences(text)
	want := []string{
		"This is the first important sentence about research",
		"Finally, in conclusion, the study reveals significant findings",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitSentences = %#v, want %#v", got, want)
	}
}

func TestSplitSentencesDropsBoundaryLength(t *testing.T) {
	// exactly 15 characters is dropped, 16 is kept
	got := SplitSentences("abcdefghijklmno. abcdefghijklmnop.")
	if len(got) != 1 || got[0] != "abcdefghijklmnop" {
		t.Fatalf("got %#v", got)
	}
}

func TestWordFrequency(t *testing.T) {
	freq := WordFrequency("The Research, research; and 2024 data about RESEARCH methods. Data!")
	if got := freq.Count("research"); got != 3 {
		t.Errorf("research = %d, want 3", got)
	}
	if got := freq.Count("data"); got != 2 {
		t.Errorf("data = %d, want 2", got)
	}
	for _, w := range []string{"the", "and", "about", "2024"} {
		if freq.Count(w) != 0 {
			t.Errorf("%q should be filtered", w)
		}
	}
	if got, want := freq.Words(), []string{"research", "data", "methods"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestTopKeywords(t *testing.T) {
	freq := NewFrequency()
	add := func(w string, n int) {
		for i := 0; i < n; i++ {
			freq.Add(w)
		}
	}
	add("apple", 5)
	add("banana", 4)
	add("evaluation", 3)
	add("cherry", 4)
	add("single", 1)
	add("methodical", 2)

	got := TopKeywords(freq)
	want := []string{"evaluation", "methodical", "apple", "banana", "cherry"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TopKeywords = %v, want %v", got, want)
	}
}

func TestTopKeywordsCapsAtEight(t *testing.T) {
	freq := NewFrequency()
	for _, w := range []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel", "india", "juliet"} {
		freq.Add(w)
		freq.Add(w)
	}
	if got := TopKeywords(freq); len(got) != 8 || got[0] != "alpha" {
		t.Fatalf("TopKeywords = %v", got)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"The study of the data is important and it is in the report for the team.", LanguageEnglish},
		{"Le rapport est dans la boite et les données sont pour le projet.", LanguageFrench},
		{"", LanguageUnknown},
		{"zzz qqq xxx", LanguageUnknown},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.text); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestDetectDocumentType(t *testing.T) {
	academic := "Abstract. Our methodology tests the hypothesis. Findings are discussed. References follow."
	if got := DetectDocumentType(academic); got != DocTypeAcademic {
		t.Errorf("academic text = %q", got)
	}
	if got := DetectDocumentType("A plain note about lunch."); got != DocTypeGeneral {
		t.Errorf("plain text = %q", got)
	}
}
