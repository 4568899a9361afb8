package extractor

import (
	"io"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// LinkExtractor finds links to PDF documents in an HTML page
type LinkExtractor struct{}

// NewLinkExtractor creates a new link extractor
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// PDFLinks returns the absolute URLs of every anchor pointing at a .pdf
// path, resolved against base, deduplicated and in document order.
func (e *LinkExtractor) PDFLinks(reader io.Reader, base *url.URL, limit int) ([]string, error) {
	doc, err := html.Parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "a" {
			if link, ok := pdfHref(n, base); ok && !seen[link] {
				seen[link] = true
				links = append(links, link)
				if limit > 0 && len(links) >= limit {
					return false
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(doc)

	return links, nil
}

func pdfHref(n *html.Node, base *url.URL) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key != "href" {
			continue
		}
		ref, err := url.Parse(strings.TrimSpace(attr.Val))
		if err != nil {
			return "", false
		}
		if base != nil {
			ref = base.ResolveReference(ref)
		}
		if ref.Scheme != "http" && ref.Scheme != "https" {
			return "", false
		}
		if !strings.EqualFold(path.Ext(ref.Path), ".pdf") {
			return "", false
		}
		ref.Fragment = ""
		return ref.String(), true
	}
	return "", false
}
