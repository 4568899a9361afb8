package quality

import "strings"

const (
	IssueLowCoherence       = "Low coherence: summary sentences do not flow well together"
	IssueLowRelevance       = "Low relevance: summary drifts from the source content"
	IssuePoorCompression    = "Poor compression: summary length is outside the ideal range"
	IssueLowKeywordCoverage = "Low keyword coverage: key concepts are missing from the summary"
	IssuePoorSentences      = "Poor sentence quality: sentences are too short, too long or malformed"
	IssueTooFewSentences    = "Summary contains fewer than 3 sentences"
	IssueErrorText          = "Summary contains error text"
)

type threshold struct {
	below       func(Metrics) bool
	issue       string
	suggestions []string
}

var thresholds = []threshold{
	{
		below: func(m Metrics) bool { return m.Coherence < 0.4 },
		issue: IssueLowCoherence,
		suggestions: []string{
			"Increase the weight of transition-bearing sentences",
			"Prefer sentences of similar length",
		},
	},
	{
		below: func(m Metrics) bool { return m.Relevance < 0.5 },
		issue: IssueLowRelevance,
		suggestions: []string{
			"Raise the keyword weight so selected sentences share the source vocabulary",
		},
	},
	{
		below: func(m Metrics) bool { return m.CompressionRatio < 0.3 },
		issue: IssuePoorCompression,
		suggestions: []string{
			"Adjust the target sentence count for this summary level",
		},
	},
	{
		below: func(m Metrics) bool { return m.KeywordCoverage < 0.4 },
		issue: IssueLowKeywordCoverage,
		suggestions: []string{
			"Favor sentences containing the extracted key phrases",
			"Raise the academic term weight for technical documents",
		},
	},
	{
		below: func(m Metrics) bool { return m.SentenceQuality < 0.6 },
		issue: IssuePoorSentences,
		suggestions: []string{
			"Raise the length weight to prefer sentences of 10 to 25 words",
		},
	},
}

// DetectIssues lists threshold violations followed by structural problems
func DetectIssues(m Metrics, summary string) []string {
	issues := []string{}
	for _, t := range thresholds {
		if t.below(m) {
			issues = append(issues, t.issue)
		}
	}
	if len(SummarySentences(summary)) < 3 {
		issues = append(issues, IssueTooFewSentences)
	}
	if strings.Contains(summary, "Unable to") || strings.Contains(summary, "Error:") {
		issues = append(issues, IssueErrorText)
	}
	return issues
}

// Suggestions returns canned advice for each triggered threshold, in the
// same order DetectIssues reports them.
func Suggestions(m Metrics, issues []string) []string {
	reported := make(map[string]bool, len(issues))
	for _, i := range issues {
		reported[i] = true
	}
	out := []string{}
	for _, t := range thresholds {
		if t.below(m) && reported[t.issue] {
			out = append(out, t.suggestions...)
		}
	}
	return out
}
