package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/apperr"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/domain"
)

// CreateSummary inserts a summary. The owning document must exist.
func (s *Store) CreateSummary(ctx context.Context, sum *domain.Summary) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Document{}).Where("id = ?", sum.DocumentID).Count(&n).Error; err != nil {
			return apperr.Persistence("create summary", err)
		}
		if n == 0 {
			return apperr.NotFound("create summary", "document "+sum.DocumentID)
		}
		if err := tx.Create(sum).Error; err != nil {
			return apperr.Persistence("create summary", err)
		}
		return nil
	})
}

// GetSummary loads one summary
func (s *Store) GetSummary(ctx context.Context, id string) (*domain.Summary, error) {
	var sum domain.Summary
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&sum).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("get summary", "summary "+id)
	}
	if err != nil {
		return nil, apperr.Persistence("get summary", err)
	}
	return &sum, nil
}

// ListSummaries returns every summary of a document, oldest first
func (s *Store) ListSummaries(ctx context.Context, documentID string) ([]*domain.Summary, error) {
	var out []*domain.Summary
	if err := s.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("generated_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, apperr.Persistence("list summaries", err)
	}
	return out, nil
}

// SetFeedback records feedback on a summary. Feedback can be given once.
func (s *Store) SetFeedback(ctx context.Context, summaryID string, rating int, comment string, at time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&domain.Summary{}).
		Where("id = ? AND feedback_rating IS NULL", summaryID).
		Updates(map[string]interface{}{
			"feedback_rating":  rating,
			"feedback_comment": comment,
			"feedback_at":      at,
		})
	if res.Error != nil {
		return apperr.Persistence("set feedback", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := s.GetSummary(ctx, summaryID); err != nil {
		return err
	}
	return apperr.Conflict("set feedback", "feedback already recorded for summary %s", summaryID)
}
