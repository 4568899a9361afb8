package pipeline

import (
	"bytes"
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/apperr"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/summarizer"
)

// BatchItem is the per-URL outcome of a batch
type BatchItem struct {
	URL    string      `json:"url"`
	Result *Result     `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
	Kind   apperr.Kind `json:"kind,omitempty"`
}

// BatchResult summarizes a batch run
type BatchResult struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// ProcessBatch processes urls one at a time, waiting the configured delay
// between items. A failing item is recorded and the batch continues; a
// cancelled context stops the batch and returns the items done so far.
func (s *Service) ProcessBatch(ctx context.Context, urls []string, level summarizer.Level) (*BatchResult, error) {
	cleaned := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			cleaned = append(cleaned, u)
		}
	}
	if len(cleaned) == 0 {
		return nil, apperr.Input("process batch", "at least one URL is required")
	}
	if len(cleaned) > s.opts.MaxBatchURLs {
		return nil, apperr.Input("process batch", "too many URLs: %d exceeds the limit of %d", len(cleaned), s.opts.MaxBatchURLs)
	}

	ctx, span := s.tracer.Start(ctx, "pipeline.batch", trace.WithAttributes(attribute.Int("batch.size", len(cleaned))))
	defer span.End()

	out := &BatchResult{Items: make([]BatchItem, 0, len(cleaned))}
	for i, u := range cleaned {
		if i > 0 && s.opts.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				return out, spanError(span, ctx.Err())
			case <-s.opts.After(s.opts.BatchDelay):
			}
		}
		if err := ctx.Err(); err != nil {
			return out, spanError(span, err)
		}

		item := BatchItem{URL: u}
		res, err := s.ProcessURL(ctx, u, level)
		if err != nil {
			item.Error = err.Error()
			item.Kind = apperr.KindOf(err)
			out.Failed++
			s.log.Warn("batch item failed", "url", u, "error", err)
		} else {
			item.Result = res
			out.Succeeded++
		}
		out.Items = append(out.Items, item)
	}

	span.SetAttributes(attribute.Int("batch.succeeded", out.Succeeded), attribute.Int("batch.failed", out.Failed))
	s.log.Info("batch processed", "total", len(cleaned), "succeeded", out.Succeeded, "failed", out.Failed)
	return out, nil
}

// DiscoverLinks fetches an HTML page and returns the PDF links it contains
func (s *Service) DiscoverLinks(ctx context.Context, pageURL string, limit int) ([]string, error) {
	if limit <= 0 || limit > s.opts.MaxBatchURLs {
		limit = s.opts.MaxBatchURLs
	}
	body, base, err := s.fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	links, err := s.links.PDFLinks(bytes.NewReader(body), base, limit)
	if err != nil {
		return nil, apperr.Extraction("discover links", 0, err)
	}
	if len(links) == 0 {
		return nil, apperr.Input("discover links", "no PDF links found on %s", pageURL)
	}
	return links, nil
}

// Discover processes the PDFs linked from an HTML page as a batch
func (s *Service) Discover(ctx context.Context, pageURL string, level summarizer.Level, limit int) ([]string, *BatchResult, error) {
	links, err := s.DiscoverLinks(ctx, pageURL, limit)
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("pdf links discovered", "page", pageURL, "count", len(links))
	res, err := s.ProcessBatch(ctx, links, level)
	return links, res, err
}
