package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Summary is one generated summary of a document
type Summary struct {
	ID              string                      `gorm:"size:36;primaryKey" json:"id"`
	DocumentID      string                      `gorm:"size:36;not null;index" json:"documentId"`
	Text            string                      `gorm:"type:text;not null" json:"text"`
	Level           string                      `gorm:"size:16;not null" json:"level"`
	Algorithm       string                      `gorm:"size:64;not null" json:"algorithm"`
	WeightsVersion  string                      `gorm:"size:32;not null;default:''" json:"weightsVersion"`
	KeyPhrases      datatypes.JSONSlice[string] `json:"keyPhrases"`
	QualityScore    *float64                    `json:"qualityScore,omitempty"`
	FeedbackRating  *int                        `json:"-"`
	FeedbackComment *string                     `gorm:"type:text" json:"-"`
	FeedbackAt      *time.Time                  `json:"-"`
	GeneratedAt     time.Time                   `gorm:"not null;index" json:"generatedAt"`
}

func (Summary) TableName() string { return "summaries" }

// Feedback is a user's rating of a summary, recorded at most once
type Feedback struct {
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}

// GetFeedback returns the recorded feedback, or nil if none was given
func (s *Summary) GetFeedback() *Feedback {
	if s.FeedbackRating == nil {
		return nil
	}
	f := &Feedback{Rating: *s.FeedbackRating}
	if s.FeedbackComment != nil {
		f.Comment = *s.FeedbackComment
	}
	if s.FeedbackAt != nil {
		f.RecordedAt = *s.FeedbackAt
	}
	return f
}

// MarshalJSON exposes feedback as a nested object
func (s Summary) MarshalJSON() ([]byte, error) {
	type plain Summary
	return json.Marshal(struct {
		plain
		Feedback *Feedback `json:"feedback,omitempty"`
	}{plain(s), s.GetFeedback()})
}
