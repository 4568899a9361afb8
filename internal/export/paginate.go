package export

import (
	"fmt"
	"strings"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/domain"
)

const (
	DefaultWordsPerPage = 300
	MaxWordsPerPage     = 5000
)

// Page is one fixed-size slice of a document's words
type Page struct {
	Number int    `json:"number"`
	Words  int    `json:"words"`
	Text   string `json:"text"`
}

// PaginatedDocument is a document split into pages of equal word count
type PaginatedDocument struct {
	ID           string                  `json:"id"`
	Title        string                  `json:"title"`
	SourceKind   domain.SourceKind       `json:"sourceKind"`
	SourceURL    string                  `json:"sourceUrl,omitempty"`
	Metadata     domain.DocumentMetadata `json:"metadata"`
	WordsPerPage int                     `json:"wordsPerPage"`
	TotalPages   int                     `json:"totalPages"`
	Pages        []Page                  `json:"pages"`
}

// Paginate splits text into pages of wordsPerPage words; values outside
// 1..MaxWordsPerPage select the default.
func Paginate(text string, wordsPerPage int) []Page {
	if wordsPerPage <= 0 || wordsPerPage > MaxWordsPerPage {
		wordsPerPage = DefaultWordsPerPage
	}
	words := strings.Fields(text)
	pages := make([]Page, 0, (len(words)+wordsPerPage-1)/wordsPerPage)
	for start := 0; start < len(words); start += wordsPerPage {
		end := min(start+wordsPerPage, len(words))
		pages = append(pages, Page{
			Number: len(pages) + 1,
			Words:  end - start,
			Text:   strings.Join(words[start:end], " "),
		})
	}
	return pages
}

// Paginated builds the paginated form of doc
func Paginated(doc *domain.Document, wordsPerPage int) *PaginatedDocument {
	if wordsPerPage <= 0 || wordsPerPage > MaxWordsPerPage {
		wordsPerPage = DefaultWordsPerPage
	}
	pages := Paginate(doc.Text, wordsPerPage)
	return &PaginatedDocument{
		ID:           doc.ID,
		Title:        doc.Title,
		SourceKind:   doc.SourceKind,
		SourceURL:    doc.SourceURL,
		Metadata:     doc.Meta(),
		WordsPerPage: wordsPerPage,
		TotalPages:   len(pages),
		Pages:        pages,
	}
}

// Text renders the paginated document as plain text
func (p *PaginatedDocument) Text() string {
	var b strings.Builder
	b.WriteString(p.Title)
	b.WriteString("\n")
	if p.SourceURL != "" {
		fmt.Fprintf(&b, "Source: %s\n", p.SourceURL)
	}
	fmt.Fprintf(&b, "Words: %d | Pages: %d (%d words per page)\n", p.Metadata.WordCount, p.TotalPages, p.WordsPerPage)
	for _, pg := range p.Pages {
		fmt.Fprintf(&b, "\n--- Page %d of %d ---\n", pg.Number, p.TotalPages)
		b.WriteString(pg.Text)
		b.WriteString("\n")
	}
	return b.String()
}
