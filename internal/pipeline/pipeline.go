// Package pipeline orchestrates extraction, summarization, quality analysis
// and recording for uploaded and remote documents.
package pipeline

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/analysis"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/apperr"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/cache"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/document"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/document/extractor"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/domain"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/learning"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/logger"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/quality"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/summarizer"
)

const (
	DefaultBatchDelay   = 2 * time.Second
	DefaultMaxBatchURLs = 20
	maxCommentLength    = 2000
)

// Repository is the record store used by the pipeline
type Repository interface {
	CreateDocument(ctx context.Context, doc *domain.Document) error
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
	CreateSummary(ctx context.Context, sum *domain.Summary) error
	GetSummary(ctx context.Context, id string) (*domain.Summary, error)
	SetFeedback(ctx context.Context, summaryID string, rating int, comment string, at time.Time) error
	CreateMetric(ctx context.Context, m *domain.LearningMetric) error
}

// Fetcher downloads remote PDFs and landing pages
type Fetcher interface {
	FetchPDF(ctx context.Context, rawURL string) ([]byte, error)
	FetchPage(ctx context.Context, rawURL string) ([]byte, *url.URL, error)
}

// WeightSource supplies the weights summaries are generated with
type WeightSource interface {
	Weights(ctx context.Context) (summarizer.Weights, learning.Version)
}

// StaticWeights is a WeightSource that never changes
type StaticWeights struct {
	W summarizer.Weights
	V learning.Version
}

// DefaultWeights returns the built-in weights at the initial version
func DefaultWeights() StaticWeights {
	return StaticWeights{W: summarizer.DefaultWeights(), V: learning.InitialVersion}
}

func (s StaticWeights) Weights(context.Context) (summarizer.Weights, learning.Version) {
	return s.W, s.V
}

// Options tunes a Service. A zero BatchDelay disables the wait between
// batch items; other zero values take defaults.
type Options struct {
	BatchDelay   time.Duration
	MaxBatchURLs int
	// Cache is optional
	Cache *cache.Summaries
	Now   func() time.Time
	After func(time.Duration) <-chan time.Time
}

// Result is the outcome of processing one document
type Result struct {
	Document *domain.Document `json:"document"`
	Summary  *domain.Summary  `json:"summary,omitempty"`
	Quality  *quality.Report  `json:"quality,omitempty"`
	Cached   bool             `json:"cached"`
	// Warnings lists recording failures that did not stop the request
	Warnings []string `json:"warnings,omitempty"`
}

// Service runs the document pipeline
type Service struct {
	processor *document.Processor
	fetcher   Fetcher
	links     *extractor.LinkExtractor
	repo      Repository
	weights   WeightSource
	opts      Options
	log       *logger.Logger
	tracer    trace.Tracer
}

// NewService wires a pipeline service
func NewService(processor *document.Processor, fetcher Fetcher, repo Repository, weights WeightSource, opts Options, log *logger.Logger) *Service {
	if opts.BatchDelay < 0 {
		opts.BatchDelay = 0
	}
	if opts.MaxBatchURLs <= 0 {
		opts.MaxBatchURLs = DefaultMaxBatchURLs
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.After == nil {
		opts.After = time.After
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		processor: processor,
		fetcher:   fetcher,
		links:     extractor.NewLinkExtractor(),
		repo:      repo,
		weights:   weights,
		opts:      opts,
		log:       log.With("component", "pipeline"),
		tracer:    otel.Tracer("pipeline"),
	}
}

// ProcessUpload extracts an uploaded PDF, records it and summarizes it
func (s *Service) ProcessUpload(ctx context.Context, filename string, r io.Reader, level summarizer.Level) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.upload", trace.WithAttributes(
		attribute.String("document.filename", filename),
		attribute.String("summary.level", string(level)),
	))
	defer span.End()

	doc, err := s.processor.ProcessUpload(ctx, filename, r)
	if err != nil {
		return nil, spanError(span, err)
	}
	res, err := s.ingest(ctx, doc, level)
	return res, spanError(span, err)
}

// ProcessURL downloads a PDF, records it and summarizes it
func (s *Service) ProcessURL(ctx context.Context, rawURL string, level summarizer.Level) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.url", trace.WithAttributes(
		attribute.String("document.url", rawURL),
		attribute.String("summary.level", string(level)),
	))
	defer span.End()

	content, err := s.fetcher.FetchPDF(ctx, rawURL)
	if err != nil {
		return nil, spanError(span, err)
	}
	doc, err := s.processor.Process(ctx, content, document.Source{Kind: domain.SourceURL, URL: rawURL})
	if err != nil {
		return nil, spanError(span, err)
	}
	res, err := s.ingest(ctx, doc, level)
	return res, spanError(span, err)
}

// Resummarize generates a new summary of a stored document
func (s *Service) Resummarize(ctx context.Context, documentID string, level summarizer.Level) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.resummarize", trace.WithAttributes(
		attribute.String("document.id", documentID),
		attribute.String("summary.level", string(level)),
	))
	defer span.End()

	doc, err := s.repo.GetDocument(ctx, documentID)
	if err != nil {
		return nil, spanError(span, err)
	}
	res := &Result{Document: doc}
	err = s.summarize(ctx, res, level)
	return res, spanError(span, err)
}

// SummarizeText summarizes raw text with the current weights without
// recording anything.
func (s *Service) SummarizeText(ctx context.Context, text string, level summarizer.Level) (*summarizer.Result, *quality.Report, error) {
	text = analysis.Normalize(text)
	sum, _, _, err := s.generate(ctx, text, level)
	if err != nil {
		return nil, nil, err
	}
	report := quality.Evaluate(text, sum.Text, sum.KeyPhrases)
	return sum, &report, nil
}

// Analyze scores an arbitrary summary against its original text
func (s *Service) Analyze(original, summary string, keyPhrases []string) quality.Report {
	return quality.Evaluate(analysis.Normalize(original), summary, keyPhrases)
}

// Feedback records a user's rating of a summary; feedback is write-once
func (s *Service) Feedback(ctx context.Context, summaryID string, rating int, comment string) (*domain.Summary, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Input("feedback", "rating must be between 1 and 5, got %d", rating)
	}
	if len(comment) > maxCommentLength {
		return nil, apperr.Input("feedback", "comment exceeds %d characters", maxCommentLength)
	}
	if err := s.repo.SetFeedback(ctx, summaryID, rating, comment, s.opts.Now().UTC()); err != nil {
		return nil, err
	}
	s.log.Info("feedback recorded", "summary", summaryID, "rating", rating)
	return s.repo.GetSummary(ctx, summaryID)
}

func (s *Service) ingest(ctx context.Context, doc *domain.Document, level summarizer.Level) (*Result, error) {
	res := &Result{Document: doc}
	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		s.warn(res, "document not recorded", err, "document", doc.ID)
	}
	if err := s.summarize(ctx, res, level); err != nil {
		return res, err
	}
	return res, nil
}

// Preview summarizes doc and scores the result without recording anything
func (s *Service) Preview(ctx context.Context, doc *domain.Document, level summarizer.Level) (*Result, error) {
	res := &Result{Document: doc}
	if _, err := s.draft(ctx, res, level); err != nil {
		return res, err
	}
	return res, nil
}

// draft fills res with a summary of res.Document and its quality report
func (s *Service) draft(ctx context.Context, res *Result, level summarizer.Level) (learning.Version, error) {
	doc := res.Document
	out, version, cached, err := s.generate(ctx, doc.Text, level)
	if err != nil {
		s.log.Info("no summary produced", "document", doc.ID, "reason", err)
		return version, err
	}
	res.Cached = cached

	report := quality.Evaluate(doc.Text, out.Text, out.KeyPhrases)
	overall := report.Metrics.Overall
	res.Summary = &domain.Summary{
		ID:             uuid.New().String(),
		DocumentID:     doc.ID,
		Text:           out.Text,
		Level:          string(level),
		Algorithm:      out.Algorithm,
		WeightsVersion: version.String(),
		KeyPhrases:     datatypes.JSONSlice[string](out.KeyPhrases),
		QualityScore:   &overall,
		GeneratedAt:    s.opts.Now().UTC(),
	}
	res.Quality = &report
	return version, nil
}

// summarize drafts a summary of res.Document and records it together with
// its quality metrics.
func (s *Service) summarize(ctx context.Context, res *Result, level summarizer.Level) error {
	version, err := s.draft(ctx, res, level)
	if err != nil {
		return err
	}
	doc, sum, report := res.Document, res.Summary, res.Quality
	overall := report.Metrics.Overall

	if err := s.repo.CreateSummary(ctx, sum); err != nil {
		s.warn(res, "summary not recorded", err, "document", doc.ID, "summary", sum.ID)
		return nil
	}
	metric := &domain.LearningMetric{
		ID:          uuid.New().String(),
		DocumentID:  doc.ID,
		SummaryID:   sum.ID,
		Scores:      datatypes.NewJSONType(report.Metrics),
		Overall:     overall,
		Issues:      datatypes.JSONSlice[string](report.Issues),
		Suggestions: datatypes.JSONSlice[string](report.Suggestions),
		CreatedAt:   sum.GeneratedAt,
	}
	if err := s.repo.CreateMetric(ctx, metric); err != nil {
		s.warn(res, "quality metrics not recorded", err, "summary", sum.ID)
	}

	s.log.Info("summary generated",
		"document", doc.ID,
		"summary", sum.ID,
		"level", string(level),
		"weights", version.String(),
		"overall", overall,
		"cached", res.Cached,
	)
	return nil
}

func (s *Service) generate(ctx context.Context, text string, level summarizer.Level) (*summarizer.Result, learning.Version, bool, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.summarize")
	defer span.End()

	w, version := s.weights.Weights(ctx)
	span.SetAttributes(attribute.String("weights.version", version.String()))

	var key string
	if s.opts.Cache != nil {
		key = cache.Key(text, level, version.String())
		hit, ok, err := s.opts.Cache.Get(ctx, key)
		if err != nil {
			s.log.Warn("summary cache read failed", "error", err)
		}
		if ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return hit, version, true, nil
		}
	}

	out, err := summarizer.Summarize(text, w, level)
	if err != nil {
		return nil, version, false, spanError(span, err)
	}
	if s.opts.Cache != nil {
		if err := s.opts.Cache.Put(ctx, key, out); err != nil {
			s.log.Warn("summary cache write failed", "error", err)
		}
	}
	return out, version, false, nil
}

func (s *Service) warn(res *Result, msg string, err error, keysAndValues ...interface{}) {
	res.Warnings = append(res.Warnings, msg)
	s.log.Error(msg, append(keysAndValues, "error", err)...)
}

func spanError(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperr.KindOf(err)))
	}
	return err
}
