package document

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/apperr"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/document/extractor"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/domain"
)

type fakeExtractor struct {
	pages []extractor.Page
	count int
	err   error
}

func (f *fakeExtractor) Extract(context.Context, []byte) ([]extractor.Page, int, error) {
	return f.pages, f.count, f.err
}

func TestProcessJoinsAndNormalizesPages(t *testing.T) {
	ex := &fakeExtractor{
		pages: []extractor.Page{
			{Number: 1, Text: "The study of   research methods\nis important."},
			{Number: 3, Text: "Results ★ indicate the method works well in the field."},
		},
		count: 3,
	}
	p := NewProcessorWithExtractor(nil, 0, ex)

	doc, err := p.Process(context.Background(), []byte("%PDF-fake"), Source{Kind: domain.SourceUpload, Filename: "field_study-2024.pdf"})
	if err != nil {
		t.Fatal(err)
	}
	want := "The study of research methods is important. Results indicate the method works well in the field."
	if doc.Text != want {
		t.Fatalf("text = %q", doc.Text)
	}
	meta := doc.Meta()
	if meta.PageCount != 3 || meta.SentenceCount != 2 || meta.Language != "en" {
		t.Errorf("metadata = %+v", meta)
	}
	if doc.Title != "field study 2024" || doc.ID == "" || doc.ByteSize != 9 {
		t.Errorf("doc = %q %q %d", doc.Title, doc.ID, doc.ByteSize)
	}
}

func TestProcessErrors(t *testing.T) {
	ctx := context.Background()
	src := Source{Kind: domain.SourceUpload, Filename: "a.pdf"}

	empty := NewProcessorWithExtractor(nil, 0, &fakeExtractor{err: extractor.ErrNoText})
	if _, err := empty.Process(ctx, []byte("x"), src); !apperr.Is(err, apperr.KindInput) {
		t.Errorf("no text err = %v", err)
	}

	broken := NewProcessorWithExtractor(nil, 0, &fakeExtractor{err: errors.New("xref missing")})
	if _, err := broken.Process(ctx, []byte("x"), src); !apperr.Is(err, apperr.KindExtraction) {
		t.Errorf("broken err = %v", err)
	}

	symbols := NewProcessorWithExtractor(nil, 0, &fakeExtractor{pages: []extractor.Page{{Number: 1, Text: "★★★ ☆"}}, count: 1})
	if _, err := symbols.Process(ctx, []byte("x"), src); !apperr.Is(err, apperr.KindInput) {
		t.Errorf("symbols-only err = %v", err)
	}
}

func TestProcessUploadValidation(t *testing.T) {
	p := NewProcessorWithExtractor(nil, 10, &fakeExtractor{pages: []extractor.Page{{Number: 1, Text: "Enough text to be a sentence here."}}, count: 1})
	ctx := context.Background()

	if _, err := p.ProcessUpload(ctx, "notes.docx", strings.NewReader("data")); !apperr.Is(err, apperr.KindInput) {
		t.Errorf("docx err = %v", err)
	}
	if _, err := p.ProcessUpload(ctx, "big.pdf", strings.NewReader(strings.Repeat("x", 11))); !apperr.Is(err, apperr.KindInput) {
		t.Errorf("oversize err = %v", err)
	}
	if _, err := p.ProcessUpload(ctx, "ok.PDF", strings.NewReader("%PDF-1.4")); err != nil {
		t.Errorf("valid upload err = %v", err)
	}
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		src       Source
		sentences []string
		want      string
	}{
		{Source{URL: "https://example.org/files/annual%20report.pdf"}, nil, "annual report"},
		{Source{}, []string{strings.Repeat("word ", 30)}, strings.TrimSpace(strings.Repeat("word ", 16)) + "..."},
		{Source{}, nil, "Untitled document"},
	}
	for _, tt := range tests {
		if got := deriveTitle(tt.src, tt.sentences); got != tt.want {
			t.Errorf("deriveTitle(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}
