package domain

import (
	"time"

	"gorm.io/datatypes"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/quality"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/summarizer"
)

// LearningMetric records the quality analysis of one summary
type LearningMetric struct {
	ID          string                              `gorm:"size:36;primaryKey" json:"id"`
	DocumentID  string                              `gorm:"size:36;not null;index" json:"documentId"`
	SummaryID   string                              `gorm:"size:36;not null;index" json:"summaryId"`
	Scores      datatypes.JSONType[quality.Metrics] `json:"scores"`
	Overall     float64                             `gorm:"not null;default:0" json:"overall"`
	Issues      datatypes.JSONSlice[string]         `json:"issues"`
	Suggestions datatypes.JSONSlice[string]         `json:"suggestions"`
	CreatedAt   time.Time                           `gorm:"not null;index" json:"createdAt"`
}

func (LearningMetric) TableName() string { return "learning_metrics" }

// LearningStateRecord is the persisted form of a learning state
type LearningStateRecord struct {
	ID                 string                                 `gorm:"size:36;primaryKey"`
	VersionMajor       int                                    `gorm:"not null"`
	VersionMinor       int                                    `gorm:"not null"`
	VersionPatch       int                                    `gorm:"not null"`
	Weights            datatypes.JSONType[summarizer.Weights] `gorm:"not null"`
	AverageQuality     float64                                `gorm:"not null"`
	DocumentsProcessed int                                    `gorm:"not null;default:0"`
	LastUpdated        time.Time                              `gorm:"not null;index"`
}

func (LearningStateRecord) TableName() string { return "learning_states" }
