package store

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/apperr"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/domain"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/learning"
)

// stateOrder puts the highest version first; last_updated only breaks ties
const stateOrder = "version_major DESC, version_minor DESC, version_patch DESC, last_updated DESC"

// States returns the append-only learning state store
func (s *Store) States() *StateStore {
	return &StateStore{db: s.db}
}

// StateStore implements learning.VersionedStore
type StateStore struct {
	db *gorm.DB
}

var _ learning.VersionedStore = (*StateStore)(nil)

func (s *StateStore) Latest(ctx context.Context) (*learning.State, error) {
	var rec domain.LearningStateRecord
	err := s.db.WithContext(ctx).Order(stateOrder).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, learning.ErrNoState
	}
	if err != nil {
		return nil, apperr.Persistence("latest learning state", err)
	}
	return fromRecord(&rec), nil
}

func (s *StateStore) Append(ctx context.Context, st *learning.State) error {
	if err := s.db.WithContext(ctx).Create(toRecord(st)).Error; err != nil {
		return apperr.Persistence("append learning state", err)
	}
	return nil
}

// History returns up to limit states, newest first
func (s *StateStore) History(ctx context.Context, limit int) ([]*learning.State, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var recs []*domain.LearningStateRecord
	if err := s.db.WithContext(ctx).Order(stateOrder).Limit(limit).Find(&recs).Error; err != nil {
		return nil, apperr.Persistence("learning history", err)
	}
	out := make([]*learning.State, len(recs))
	for i, r := range recs {
		out[i] = fromRecord(r)
	}
	return out, nil
}

func toRecord(st *learning.State) *domain.LearningStateRecord {
	return &domain.LearningStateRecord{
		ID:                 st.ID,
		VersionMajor:       st.Version.Major,
		VersionMinor:       st.Version.Minor,
		VersionPatch:       st.Version.Patch,
		Weights:            datatypes.NewJSONType(st.Weights),
		AverageQuality:     st.AverageQuality,
		DocumentsProcessed: st.DocumentsProcessed,
		LastUpdated:        st.LastUpdated.UTC(),
	}
}

func fromRecord(r *domain.LearningStateRecord) *learning.State {
	return &learning.State{
		ID:                 r.ID,
		Weights:            r.Weights.Data(),
		Version:            learning.Version{Major: r.VersionMajor, Minor: r.VersionMinor, Patch: r.VersionPatch},
		AverageQuality:     r.AverageQuality,
		DocumentsProcessed: r.DocumentsProcessed,
		LastUpdated:        r.LastUpdated,
	}
}
