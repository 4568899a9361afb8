package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/domain"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithXHTML(),
	),
)

var sanitizer = bluemonday.UGCPolicy()

// RenderHTML converts markdown to sanitized HTML
func RenderHTML(markdown string) (string, error) {
	var out bytes.Buffer
	if err := markdownEngine.Convert([]byte(markdown), &out); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return sanitizer.Sanitize(out.String()), nil
}

// SummaryHTML renders a summary as a standalone HTML page
func SummaryHTML(doc *domain.Document, sum *domain.Summary) (string, error) {
	body, err := RenderHTML(SummaryMarkdown(doc, sum))
	if err != nil {
		return "", err
	}

	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n  <head>\n")
	b.WriteString("    <meta charset=\"UTF-8\" />\n")
	b.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\" />\n")
	b.WriteString("    <title>")
	b.WriteString(template.HTMLEscapeString(doc.Title))
	b.WriteString("</title>\n  </head>\n  <body>\n    <article>\n")
	b.WriteString(body)
	b.WriteString("    </article>\n  </body>\n</html>\n")
	return b.String(), nil
}
