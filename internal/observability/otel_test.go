package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/config"
)

func TestSetupDisabledIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracingConfig{}, Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestSetupStdoutExportsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	cfg := config.TracingConfig{Enabled: true, ServiceName: "summarizer-test", SampleRatio: 1}
	shutdown, err := Setup(context.Background(), cfg, Options{Environment: "test", Writer: &buf}, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "unit.span")
	span.End()
	if err := shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "unit.span") || !strings.Contains(buf.String(), "summarizer-test") {
		t.Fatalf("exported = %s", buf.String())
	}
}
