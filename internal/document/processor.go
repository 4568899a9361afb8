package document

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/analysis"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/apperr"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/document/extractor"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/domain"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/logger"
	"github.com/sanjeevkumarraob/adaptive-summarizer/pkg/stream"
)

const (
	defaultMaxDocumentSize = 50 * 1024 * 1024
	readChunkSize          = 64 * 1024
	maxTitleLength         = 80
)

// Source describes where document bytes came from
type Source struct {
	Kind     domain.SourceKind
	Filename string
	URL      string
}

// PageExtractor returns the text of each non-empty page and the page count
type PageExtractor interface {
	Extract(ctx context.Context, content []byte) ([]extractor.Page, int, error)
}

// Processor turns PDF bytes into normalized documents
type Processor struct {
	pdfExtractor    PageExtractor
	logger          *logger.Logger
	maxDocumentSize int64
	now             func() time.Time
}

// NewProcessor creates a new document processor; maxDocumentSize <= 0
// selects 50MB.
func NewProcessor(log *logger.Logger, maxDocumentSize int64) *Processor {
	if log == nil {
		log = logger.Nop()
	}
	return NewProcessorWithExtractor(log, maxDocumentSize, extractor.NewPDFExtractor(log))
}

// NewProcessorWithExtractor creates a processor around a custom extractor
func NewProcessorWithExtractor(log *logger.Logger, maxDocumentSize int64, ex PageExtractor) *Processor {
	if log == nil {
		log = logger.Nop()
	}
	if maxDocumentSize <= 0 {
		maxDocumentSize = defaultMaxDocumentSize
	}
	return &Processor{
		pdfExtractor:    ex,
		logger:          log.With("component", "document"),
		maxDocumentSize: maxDocumentSize,
		now:             time.Now,
	}
}

// MaxDocumentSize is the largest accepted input in bytes
func (p *Processor) MaxDocumentSize() int64 { return p.maxDocumentSize }

// ProcessUpload validates an uploaded file name and extracts its content
func (p *Processor) ProcessUpload(ctx context.Context, filename string, r io.Reader) (*domain.Document, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, apperr.Input("process upload", "unsupported file type %q: only PDF files are accepted", filepath.Ext(filename))
	}
	content, err := stream.NewChunkedReader(r, readChunkSize, p.maxDocumentSize).ReadAll()
	if errors.Is(err, stream.ErrTooLarge) {
		return nil, apperr.Input("process upload", "file exceeds maximum size of %d bytes", p.maxDocumentSize)
	}
	if err != nil {
		return nil, apperr.Extraction("process upload", 0, err)
	}
	return p.Process(ctx, content, Source{Kind: domain.SourceUpload, Filename: filename})
}

// Process extracts, normalizes and describes a PDF
func (p *Processor) Process(ctx context.Context, content []byte, src Source) (*domain.Document, error) {
	if len(content) == 0 {
		return nil, apperr.Input("process document", "empty file")
	}

	pages, pageCount, err := p.pdfExtractor.Extract(ctx, content)
	if errors.Is(err, extractor.ErrNoText) {
		return nil, apperr.Input("process document", "no text could be extracted from the PDF")
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperr.Extraction("process document", 0, err)
	}

	texts := make([]string, len(pages))
	for i, pg := range pages {
		texts[i] = pg.Text
	}
	text := analysis.Normalize(strings.Join(texts, " "))
	if text == "" {
		return nil, apperr.Input("process document", "no text could be extracted from the PDF")
	}

	sentences := analysis.SplitSentences(text)
	doc := &domain.Document{
		ID:         uuid.New().String(),
		Title:      deriveTitle(src, sentences),
		SourceKind: src.Kind,
		SourceURL:  src.URL,
		Text:       text,
		ByteSize:   int64(len(content)),
		Metadata: datatypes.NewJSONType(domain.DocumentMetadata{
			WordCount:     len(strings.Fields(text)),
			SentenceCount: len(sentences),
			PageCount:     pageCount,
			Language:      analysis.DetectLanguage(text),
			DocumentType:  analysis.DetectDocumentType(text),
		}),
		ExtractedAt: p.now().UTC(),
	}

	p.logger.Info("document processed",
		"id", doc.ID,
		"source", string(src.Kind),
		"pages", pageCount,
		"bytes", doc.ByteSize,
		"words", doc.Meta().WordCount,
	)
	return doc, nil
}

func deriveTitle(src Source, sentences []string) string {
	name := src.Filename
	if name == "" && src.URL != "" {
		if u, err := url.Parse(src.URL); err == nil {
			name, _ = url.PathUnescape(path.Base(u.Path))
		}
	}
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	name = strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(name))
	if name != "" && name != "." && name != "/" {
		return name
	}
	if len(sentences) > 0 {
		return truncate(sentences[0], maxTitleLength)
	}
	return "Untitled document"
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "..."
}
