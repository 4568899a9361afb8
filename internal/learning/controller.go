package learning

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/apperr"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/logger"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/summarizer"
)

const (
	DefaultLookback     = 20
	DefaultMinDocuments = 5
)

// Outcome is the result tag of a learning cycle
type Outcome string

const (
	OutcomeApplied          Outcome = "applied"
	OutcomeBusy             Outcome = "busy"
	OutcomeInsufficientData Outcome = "insufficient_data"
	OutcomeFailed           Outcome = "failed"
)

// CycleResult describes one Run
type CycleResult struct {
	Outcome   Outcome `json:"outcome"`
	Documents int     `json:"documents"`
	State     *State  `json:"state,omitempty"`
	Err       error   `json:"-"`
}

// Options tunes the controller
type Options struct {
	Lookback         int
	MinDocuments     int
	QualityIncrement float64
	Floors           summarizer.Weights
	// Locker, when set, is held for the duration of a cycle in addition to
	// the in-process flag.
	Locker Locker
	Now    func() time.Time
}

// Controller runs at most one learning cycle at a time and is the only
// writer of learning states.
type Controller struct {
	states  VersionedStore
	docs    DocumentSource
	policy  AdjustmentPolicy
	opts    Options
	log     *logger.Logger
	running atomic.Bool
	current atomic.Pointer[State]
}

// NewController wires a controller; zero-valued options take defaults
func NewController(states VersionedStore, docs DocumentSource, policy AdjustmentPolicy, opts Options, log *logger.Logger) *Controller {
	if opts.Lookback <= 0 {
		opts.Lookback = DefaultLookback
	}
	if opts.MinDocuments <= 0 {
		opts.MinDocuments = DefaultMinDocuments
	}
	if opts.QualityIncrement == 0 {
		opts.QualityIncrement = DefaultQualityIncrement
	}
	if opts.Floors == (summarizer.Weights{}) {
		opts.Floors = DefaultFloors()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		states: states,
		docs:   docs,
		policy: policy,
		opts:   opts,
		log:    log.With("component", "learning"),
	}
}

// Current returns the authoritative state, seeding the initial state when
// the store is empty. With a Locker the store is shared with other
// processes, so every call reads the latest record and the cached copy is
// only a fallback for read errors.
func (c *Controller) Current(ctx context.Context) (*State, error) {
	shared := c.opts.Locker != nil
	if s := c.current.Load(); s != nil && !shared {
		return s, nil
	}
	s, err := c.load(ctx, false)
	if err != nil {
		if cached := c.current.Load(); cached != nil {
			c.log.Warn("serving cached learning state", "error", err)
			return cached, nil
		}
		return nil, err
	}
	if shared {
		c.current.Store(s)
		return s, nil
	}
	c.current.CompareAndSwap(nil, s)
	return c.current.Load(), nil
}

// load reads the latest state. An empty store is seeded with the initial
// state; when another process holds the Locker the initial state is
// returned unrecorded and seeding is left to a later call. locked reports
// whether the caller already holds the Locker.
func (c *Controller) load(ctx context.Context, locked bool) (*State, error) {
	s, err := c.states.Latest(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrNoState) {
		return nil, apperr.New(apperr.KindLearningCycle, "load learning state", err)
	}

	if c.opts.Locker != nil && !locked {
		ok, err := c.opts.Locker.TryLock(ctx)
		if err != nil {
			return nil, apperr.New(apperr.KindLearningCycle, "learning lock", err)
		}
		if !ok {
			return InitialState(c.opts.Now()), nil
		}
		defer func() {
			if err := c.opts.Locker.Unlock(context.WithoutCancel(ctx)); err != nil {
				c.log.Warn("learning unlock failed", "error", err)
			}
		}()
		// another process may have seeded between the read and the lock
		s, err := c.states.Latest(ctx)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrNoState) {
			return nil, apperr.New(apperr.KindLearningCycle, "load learning state", err)
		}
	}

	s = InitialState(c.opts.Now())
	if err := c.states.Append(ctx, s); err != nil {
		return nil, apperr.New(apperr.KindLearningCycle, "seed learning state", err)
	}
	return s, nil
}

// Weights returns the current weight vector, falling back to the defaults
// when the store cannot be read.
func (c *Controller) Weights(ctx context.Context) (summarizer.Weights, Version) {
	s, err := c.Current(ctx)
	if err != nil {
		c.log.Warn("using default weights", "error", err)
		return summarizer.DefaultWeights(), InitialVersion
	}
	return s.Weights, s.Version
}

// Running reports whether a cycle is in progress in this process
func (c *Controller) Running() bool {
	return c.running.Load()
}

// Trigger starts a cycle in the background and returns immediately. It
// returns false when a cycle is already running.
func (c *Controller) Trigger(ctx context.Context) bool {
	if !c.running.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		defer c.running.Store(false)
		c.guarded(context.WithoutCancel(ctx))
	}()
	return true
}

// Run executes a cycle synchronously. A call made while another cycle is
// running returns OutcomeBusy without side effects.
func (c *Controller) Run(ctx context.Context) CycleResult {
	if !c.running.CompareAndSwap(false, true) {
		return CycleResult{Outcome: OutcomeBusy}
	}
	defer c.running.Store(false)
	return c.guarded(ctx)
}

func (c *Controller) guarded(ctx context.Context) CycleResult {
	if c.opts.Locker != nil {
		ok, err := c.opts.Locker.TryLock(ctx)
		if err != nil {
			c.log.Error("learning lock failed", "error", err)
			return CycleResult{Outcome: OutcomeFailed, Err: apperr.New(apperr.KindLearningCycle, "learning lock", err)}
		}
		if !ok {
			c.log.Info("learning cycle held by another process")
			return CycleResult{Outcome: OutcomeBusy}
		}
		defer func() {
			if err := c.opts.Locker.Unlock(context.WithoutCancel(ctx)); err != nil {
				c.log.Warn("learning unlock failed", "error", err)
			}
		}()
	}
	return c.cycle(ctx)
}

func (c *Controller) cycle(ctx context.Context) CycleResult {
	ctx, span := otel.Tracer("learning").Start(ctx, "learning.cycle")
	defer span.End()

	start := c.opts.Now()
	fail := func(op string, err error) CycleResult {
		err = apperr.New(apperr.KindLearningCycle, op, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, op)
		c.log.Error("learning cycle failed", "op", op, "error", err)
		return CycleResult{Outcome: OutcomeFailed, Err: err}
	}

	ids, err := c.docs.RecentDocumentIDs(ctx, c.opts.Lookback)
	if err != nil {
		return fail("load recent documents", err)
	}
	span.SetAttributes(attribute.Int("learning.documents", len(ids)))
	if len(ids) < c.opts.MinDocuments {
		c.log.Info("insufficient data for learning", "documents", len(ids), "required", c.opts.MinDocuments)
		return CycleResult{Outcome: OutcomeInsufficientData, Documents: len(ids)}
	}

	cur, err := c.load(ctx, true)
	if err != nil {
		return fail("load learning state", err)
	}

	next := cur.Next(c.policy.Adjust(cur.Weights), c.opts.Floors, len(ids), c.opts.QualityIncrement, c.opts.Now())
	if err := c.states.Append(ctx, next); err != nil {
		return fail("append learning state", err)
	}
	c.current.Store(next)

	span.SetAttributes(attribute.String("learning.version", next.Version.String()))
	c.log.Info("learning cycle applied",
		"version", next.Version.String(),
		"documents", len(ids),
		"averageQuality", next.AverageQuality,
		"elapsed", c.opts.Now().Sub(start),
	)
	return CycleResult{Outcome: OutcomeApplied, Documents: len(ids), State: next}
}
