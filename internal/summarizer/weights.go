package summarizer

// Weights is the six-component scoring configuration consumed by the summarizer
type Weights struct {
	Position         float64 `json:"positionWeight" yaml:"position"`
	Length           float64 `json:"lengthWeight" yaml:"length"`
	Keyword          float64 `json:"keywordWeight" yaml:"keyword"`
	ImportancePhrase float64 `json:"importancePhraseWeight" yaml:"importance_phrase"`
	AcademicTerm     float64 `json:"academicTermWeight" yaml:"academic_term"`
	Question         float64 `json:"questionWeight" yaml:"question"`
}

// DefaultWeights returns the weights used before any learning cycle ran
func DefaultWeights() Weights {
	return Weights{
		Position:         2.0,
		Length:           1.5,
		Keyword:          0.5,
		ImportancePhrase: 2.0,
		AcademicTerm:     0.3,
		Question:         0.5,
	}
}

// Components returns the weights in declaration order
func (w Weights) Components() [6]float64 {
	return [6]float64{w.Position, w.Length, w.Keyword, w.ImportancePhrase, w.AcademicTerm, w.Question}
}

// WeightsFromComponents is the inverse of Components
func WeightsFromComponents(c [6]float64) Weights {
	return Weights{
		Position:         c[0],
		Length:           c[1],
		Keyword:          c[2],
		ImportancePhrase: c[3],
		AcademicTerm:     c[4],
		Question:         c[5],
	}
}
