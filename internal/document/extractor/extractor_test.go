package extractor

import (
	"context"
	"errors"
	"net/url"
	"reflect"
	"strings"
	"testing"
)

func TestPDFLinks(t *testing.T) {
	page := `<html><body>
<a href="/papers/one.pdf">One</a>
<a href="two.PDF#page=2">Two</a>
<a href="https://other.example.org/three.pdf">Three</a>
<a href="/papers/one.pdf">Duplicate</a>
<a href="/about.html">About</a>
<a href="mailto:someone@example.org">Mail</a>
</body></html>`
	base, _ := url.Parse("https://example.org/library/index.html")

	got, err := NewLinkExtractor().PDFLinks(strings.NewReader(page), base, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"https://example.org/papers/one.pdf",
		"https://example.org/library/two.PDF",
		"https://other.example.org/three.pdf",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("links = %v, want %v", got, want)
	}

	limited, _ := NewLinkExtractor().PDFLinks(strings.NewReader(page), base, 2)
	if len(limited) != 2 {
		t.Fatalf("limited = %v", limited)
	}
}

func TestDecodeContentStream(t *testing.T) {
	stream := []byte("BT\n/F1 12 Tf\n72 712 Td\n(Hello \\(PDF\\) world) Tj\n0 -14 Td\n[(Sec) -20 (ond line)] TJ\n(\\101BC) '\nET\n")
	got := decodeContentStream(stream)
	if got != "Hello (PDF) world Second line ABC" {
		t.Fatalf("decoded = %q", got)
	}
}

func TestExtractRejectsGarbage(t *testing.T) {
	_, _, err := NewPDFExtractor(nil).Extract(context.Background(), []byte("definitely not a pdf"))
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrNoText) {
		t.Fatalf("unreadable file reported as empty: %v", err)
	}
}
