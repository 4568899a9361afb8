package store

import (
	"context"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/apperr"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/domain"
)

// CreateMetric records a quality analysis
func (s *Store) CreateMetric(ctx context.Context, m *domain.LearningMetric) error {
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return apperr.Persistence("create metric", err)
	}
	return nil
}

// RecentMetrics returns the newest quality analyses
func (s *Store) RecentMetrics(ctx context.Context, limit int) ([]*domain.LearningMetric, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var out []*domain.LearningMetric
	if err := s.db.WithContext(ctx).
		Order("created_at DESC, id ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, apperr.Persistence("recent metrics", err)
	}
	return out, nil
}

// Stats aggregates counters over every stored record
type Stats struct {
	Documents      int64   `json:"documents"`
	Summaries      int64   `json:"summaries"`
	Metrics        int64   `json:"metrics"`
	MeanOverall    float64 `json:"meanOverallQuality"`
	FeedbackCount  int64   `json:"feedbackCount"`
	MeanRating     float64 `json:"meanRating"`
	LearningStates int64   `json:"learningStates"`
}

// Stats computes aggregate counters
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	var st Stats
	steps := []struct {
		op  string
		run func() error
	}{
		{"count documents", func() error { return db.Model(&domain.Document{}).Count(&st.Documents).Error }},
		{"count summaries", func() error { return db.Model(&domain.Summary{}).Count(&st.Summaries).Error }},
		{"count metrics", func() error { return db.Model(&domain.LearningMetric{}).Count(&st.Metrics).Error }},
		{"count states", func() error { return db.Model(&domain.LearningStateRecord{}).Count(&st.LearningStates).Error }},
		{"count feedback", func() error {
			return db.Model(&domain.Summary{}).Where("feedback_rating IS NOT NULL").Count(&st.FeedbackCount).Error
		}},
		{"mean quality", func() error {
			return db.Model(&domain.LearningMetric{}).Select("COALESCE(AVG(overall), 0)").Scan(&st.MeanOverall).Error
		}},
		{"mean rating", func() error {
			return db.Model(&domain.Summary{}).Where("feedback_rating IS NOT NULL").
				Select("COALESCE(AVG(feedback_rating), 0)").Scan(&st.MeanRating).Error
		}},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return nil, apperr.Persistence(step.op, err)
		}
	}
	return &st, nil
}
