package analysis

import "strings"

// Language codes returned by DetectLanguage
const (
	LanguageEnglish = "en"
	LanguageFrench  = "fr"
	LanguageSpanish = "es"
	LanguageGerman  = "de"
	LanguageUnknown = "unknown"
)

// Document types returned by DetectDocumentType
const (
	DocTypeAcademic  = "academic"
	DocTypeLegal     = "legal"
	DocTypeTechnical = "technical"
	DocTypeBusiness  = "business"
	DocTypeGeneral   = "general"
)

var languageMarkers = []struct {
	code  string
	words map[string]struct{}
}{
	{LanguageEnglish, wordSet("the", "and", "of", "to", "is", "in", "that", "it", "with", "for", "as", "on")},
	{LanguageFrench, wordSet("le", "la", "les", "et", "des", "est", "une", "dans", "que", "pour", "du", "sur")},
	{LanguageSpanish, wordSet("el", "la", "los", "las", "y", "es", "una", "en", "que", "para", "del", "por")},
	{LanguageGerman, wordSet("der", "die", "das", "und", "ist", "ein", "eine", "nicht", "mit", "für", "auf", "zu")},
}

const minLanguageRatio = 0.05

func wordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// DetectLanguage guesses the language from the share of common function words
func DetectLanguage(text string) string {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return LanguageUnknown
	}
	best, bestHits := LanguageUnknown, 0
	for _, lang := range languageMarkers {
		hits := 0
		for _, f := range fields {
			if _, ok := lang.words[strings.Trim(f, `.,!?;:()"'-`)]; ok {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = lang.code, hits
		}
	}
	if float64(bestHits)/float64(len(fields)) < minLanguageRatio {
		return LanguageUnknown
	}
	return best
}

var documentTypeMarkers = []struct {
	docType string
	markers []string
}{
	{DocTypeAcademic, []string{"abstract", "methodology", "hypothesis", "references", "literature review", "findings", "et al", "doi"}},
	{DocTypeLegal, []string{"pursuant", "hereinafter", "plaintiff", "defendant", "agreement", "clause", "jurisdiction", "whereas"}},
	{DocTypeTechnical, []string{"algorithm", "implementation", "configuration", "architecture", "api", "protocol", "specification", "performance"}},
	{DocTypeBusiness, []string{"revenue", "market", "customer", "quarter", "strategy", "stakeholder", "profit", "investment"}},
}

const minDocumentTypeHits = 3

// DetectDocumentType classifies text by counting domain marker occurrences
func DetectDocumentType(text string) string {
	lower := strings.ToLower(text)
	best, bestHits := DocTypeGeneral, 0
	for _, dt := range documentTypeMarkers {
		hits := 0
		for _, m := range dt.markers {
			hits += strings.Count(lower, m)
		}
		if hits > bestHits {
			best, bestHits = dt.docType, hits
		}
	}
	if bestHits < minDocumentTypeHits {
		return DocTypeGeneral
	}
	return best
}
