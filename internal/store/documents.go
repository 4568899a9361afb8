package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/apperr"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/domain"
)

const defaultListLimit = 50

// CreateDocument inserts a new document
func (s *Store) CreateDocument(ctx context.Context, doc *domain.Document) error {
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return apperr.Persistence("create document", err)
	}
	return nil
}

// GetDocument loads a document including its text
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	var doc domain.Document
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("get document", "document "+id)
	}
	if err != nil {
		return nil, apperr.Persistence("get document", err)
	}
	return &doc, nil
}

// ListDocuments returns the newest documents without their text
func (s *Store) ListDocuments(ctx context.Context, limit int) ([]*domain.Document, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var out []*domain.Document
	if err := s.db.WithContext(ctx).
		Omit("text").
		Order("extracted_at DESC, id ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, apperr.Persistence("list documents", err)
	}
	return out, nil
}

// RecentDocumentIDs returns the ids of the newest documents
func (s *Store) RecentDocumentIDs(ctx context.Context, limit int) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).
		Model(&domain.Document{}).
		Order("extracted_at DESC, id ASC").
		Limit(limit).
		Pluck("id", &ids).Error; err != nil {
		return nil, apperr.Persistence("recent documents", err)
	}
	return ids, nil
}
