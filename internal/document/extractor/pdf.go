package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/logger"
)

// ErrNoText is returned when a readable PDF yields no text at all
var ErrNoText = errors.New("no text extracted from PDF")

// Page is the extracted text of one PDF page
type Page struct {
	Number int
	Text   string
}

// PDFExtractor extracts page text with ledongthuc/pdf and falls back to
// pdfcpu content streams for pages (or files) it cannot read.
type PDFExtractor struct {
	log *logger.Logger
}

// NewPDFExtractor creates a new PDF extractor
func NewPDFExtractor(log *logger.Logger) *PDFExtractor {
	if log == nil {
		log = logger.Nop()
	}
	return &PDFExtractor{log: log.With("component", "pdf")}
}

// Extract returns the non-empty pages of the PDF in order together with
// the total page count.
func (e *PDFExtractor) Extract(ctx context.Context, content []byte) ([]Page, int, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		e.log.Warn("primary pdf reader failed, using fallback", "error", err)
		return e.extractFallback(ctx, content)
	}

	numPages := r.NumPage()
	var pages []Page
	var failed []int

	for i := 1; i <= numPages; i++ {
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		default:
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		text, err := plainText(p)
		if err != nil {
			e.log.Warn("skipping unreadable page", "page", i, "error", err)
			failed = append(failed, i)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, Page{Number: i, Text: text})
		}
	}

	if len(failed) > 0 || len(pages) == 0 {
		pages = e.recoverPages(content, pages, failed, len(pages) == 0)
	}
	if len(pages) == 0 {
		return nil, numPages, ErrNoText
	}
	return pages, numPages, nil
}

// plainText guards against panics raised by malformed content streams
func plainText(p pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page content: %v", r)
		}
	}()
	return p.GetPlainText(nil)
}

// recoverPages fills failed pages (or every page when all is set) from
// pdfcpu and merges them into pages by page number.
func (e *PDFExtractor) recoverPages(content []byte, pages []Page, failed []int, all bool) []Page {
	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(content), model.NewDefaultConfiguration())
	if err != nil {
		e.log.Warn("fallback pdf reader failed", "error", err)
		return pages
	}
	if all {
		failed = failed[:0]
		for i := 1; i <= pctx.PageCount; i++ {
			failed = append(failed, i)
		}
	}

	recovered := make(map[int]string, len(failed))
	for _, nr := range failed {
		if text := contentStreamText(pctx, nr); text != "" {
			recovered[nr] = text
		}
	}
	if len(recovered) == 0 {
		return pages
	}

	for nr, text := range recovered {
		pages = append(pages, Page{Number: nr, Text: text})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Number < pages[j].Number })
	return pages
}

func (e *PDFExtractor) extractFallback(ctx context.Context, content []byte) ([]Page, int, error) {
	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(content), model.NewDefaultConfiguration())
	if err != nil {
		return nil, 0, fmt.Errorf("read pdf: %w", err)
	}
	var pages []Page
	for nr := 1; nr <= pctx.PageCount; nr++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		if text := contentStreamText(pctx, nr); text != "" {
			pages = append(pages, Page{Number: nr, Text: text})
		}
	}
	if len(pages) == 0 {
		return nil, pctx.PageCount, ErrNoText
	}
	return pages, pctx.PageCount, nil
}

var (
	pdfStringRe   = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)
	showTextOpsRe = regexp.MustCompile(`(Tj|TJ|'|")$`)
)

func contentStreamText(pctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
	if err != nil || r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	return decodeContentStream(data)
}

// decodeContentStream collects the string operands of text-showing operators
func decodeContentStream(data []byte) string {
	var parts []string
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if !showTextOpsRe.Match(line) {
			continue
		}
		var sb strings.Builder
		for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
			sb.WriteString(unescapePDFString(m[1]))
		}
		if s := strings.TrimSpace(sb.String()); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func unescapePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch raw[i] {
		case 'n', 'r', 't':
			sb.WriteByte(' ')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v, n := 0, 0
			for n < 3 && i < len(raw) && raw[i] >= '0' && raw[i] <= '7' {
				v = v*8 + int(raw[i]-'0')
				i++
				n++
			}
			i--
			sb.WriteByte(byte(v))
		default:
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}
