// Package learning owns the current weight vector and the cycle that
// revises it from recent documents.
package learning

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/summarizer"
)

const (
	InitialAverageQuality   = 0.7
	DefaultQualityIncrement = 0.01
)

// ErrNoState is returned by a VersionedStore that holds no record yet
var ErrNoState = errors.New("learning: no state recorded")

// State is one append-only record of the weight vector and its performance
// aggregate. The most recently appended State is the current one.
type State struct {
	ID                 string             `json:"id"`
	Weights            summarizer.Weights `json:"weights"`
	Version            Version            `json:"version"`
	AverageQuality     float64            `json:"averageQuality"`
	DocumentsProcessed int                `json:"documentsProcessed"`
	LastUpdated        time.Time          `json:"lastUpdated"`
}

// InitialState returns the state used when the store is empty
func InitialState(now time.Time) *State {
	return &State{
		ID:             uuid.New().String(),
		Weights:        summarizer.DefaultWeights(),
		Version:        InitialVersion,
		AverageQuality: InitialAverageQuality,
		LastUpdated:    now,
	}
}

// Next derives the successor of s after a cycle over batch documents
func (s *State) Next(w summarizer.Weights, floors summarizer.Weights, batch int, qualityIncrement float64, now time.Time) *State {
	return &State{
		ID:                 uuid.New().String(),
		Weights:            ApplyFloors(w, floors),
		Version:            s.Version.BumpPatch(),
		AverageQuality:     math.Min(1, s.AverageQuality+qualityIncrement),
		DocumentsProcessed: s.DocumentsProcessed + batch,
		LastUpdated:        now,
	}
}

// VersionedStore persists learning states append-only
type VersionedStore interface {
	Latest(ctx context.Context) (*State, error)
	Append(ctx context.Context, s *State) error
}

// DocumentSource lists the ids of the most recently processed documents
type DocumentSource interface {
	RecentDocumentIDs(ctx context.Context, limit int) ([]string, error)
}
