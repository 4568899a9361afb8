package analysis

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "and", "for", "are", "but", "not", "you", "all", "any", "can", "had", "her", "was",
		"one", "our", "out", "has", "his", "how", "its", "may", "new", "now", "see", "two", "who",
		"did", "she", "use", "way", "him", "get", "let", "own", "too", "yet", "via", "per",
		"that", "this", "with", "from", "have", "were", "been", "they", "their", "there", "which",
		"would", "could", "should", "about", "into", "than", "then", "them", "these", "those",
		"what", "when", "where", "while", "will", "your", "also", "such", "more", "most", "some",
		"very", "each", "other", "only", "over", "after", "before", "because", "being", "both",
		"does", "doing", "during", "here", "just", "like", "many", "much", "must", "same",
		"since", "through", "under", "upon", "within", "without", "among", "between", "however",
		"therefore", "thus", "whom", "whose", "yours", "itself", "ours", "theirs", "himself",
		"herself", "themselves", "above", "below", "again", "further", "once", "until", "against",
		"having", "might", "shall", "said", "make", "made", "even", "well", "back", "still",
		"every", "either", "neither", "another", "whether", "although", "though", "often",
	} {
		stopWords[w] = struct{}{}
	}
}

// IsStopWord reports whether a lowercased word is in the stop-word set
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
