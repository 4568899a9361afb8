// Package export renders summaries and documents for download.
package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/apperr"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/domain"
)

// Format is an export encoding
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

var summaryFormats = map[Format]bool{FormatText: true, FormatMarkdown: true, FormatHTML: true}
var documentFormats = map[Format]bool{FormatText: true, FormatJSON: true}

func parse(s string, allowed map[Format]bool) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "":
		return FormatText, nil
	case "txt":
		f = FormatText
	case "md":
		f = FormatMarkdown
	}
	if !allowed[f] {
		return "", apperr.Input("export", "unsupported export format %q", s)
	}
	return f, nil
}

// ParseSummaryFormat accepts text, markdown or html; empty selects text
func ParseSummaryFormat(s string) (Format, error) { return parse(s, summaryFormats) }

// ParseDocumentFormat accepts text or json; empty selects text
func ParseDocumentFormat(s string) (Format, error) { return parse(s, documentFormats) }

// ContentType returns the response media type of f
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension returns the file extension of f without the dot
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatHTML:
		return "html"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename builds a download name from a title
func Filename(title, suffix string, f Format) string {
	base := strings.Trim(unsafeFilename.ReplaceAllString(strings.TrimSpace(title), "_"), "._-")
	if base == "" {
		base = "document"
	}
	if len(base) > 60 {
		base = base[:60]
	}
	if suffix != "" {
		base += "_" + suffix
	}
	return base + "." + f.Extension()
}

// SummaryText renders a summary as plain text followed by a key terms block
func SummaryText(doc *domain.Document, sum *domain.Summary) string {
	var b strings.Builder
	b.WriteString(doc.Title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len([]rune(doc.Title))))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Level: %s | Generated: %s | Algorithm: %s\n\n", sum.Level, sum.GeneratedAt.UTC().Format(time.RFC3339), sum.Algorithm)
	b.WriteString(sum.Text)
	b.WriteString("\n")
	if len(sum.KeyPhrases) > 0 {
		b.WriteString("\nKey Terms:\n")
		for _, k := range sum.KeyPhrases {
			b.WriteString("- ")
			b.WriteString(k)
			b.WriteString("\n")
		}
	}
	if sum.QualityScore != nil {
		fmt.Fprintf(&b, "\nQuality score: %.2f\n", *sum.QualityScore)
	}
	return b.String()
}

var markdownSpecial = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"<", `\<`, ">", `\>`, "#", `\#`, "|", `\|`,
)

// SummaryMarkdown renders a summary as a markdown document
func SummaryMarkdown(doc *domain.Document, sum *domain.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", markdownSpecial.Replace(doc.Title))
	fmt.Fprintf(&b, "*Level: %s · Generated: %s · Algorithm: %s*\n\n",
		sum.Level, sum.GeneratedAt.UTC().Format(time.RFC3339), markdownSpecial.Replace(sum.Algorithm))
	if doc.SourceURL != "" {
		fmt.Fprintf(&b, "Source: <%s>\n\n", doc.SourceURL)
	}
	b.WriteString(markdownSpecial.Replace(sum.Text))
	b.WriteString("\n")
	if len(sum.KeyPhrases) > 0 {
		b.WriteString("\n## Key Terms\n\n")
		for _, k := range sum.KeyPhrases {
			fmt.Fprintf(&b, "- %s\n", markdownSpecial.Replace(k))
		}
	}
	if sum.QualityScore != nil {
		fmt.Fprintf(&b, "\n**Quality score:** %.2f\n", *sum.QualityScore)
	}
	return b.String()
}
