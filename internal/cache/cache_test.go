package cache

import (
	"context"
	"testing"
	"time"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/summarizer"
)

func TestKeyVariesByInput(t *testing.T) {
	a := Key("text", summarizer.LevelStudent, "1.0.0")
	if a != Key("text", summarizer.LevelStudent, "1.0.0") {
		t.Fatal("key not deterministic")
	}
	for _, other := range []string{
		Key("text!", summarizer.LevelStudent, "1.0.0"),
		Key("text", summarizer.LevelProfessor, "1.0.0"),
		Key("text", summarizer.LevelStudent, "1.0.1"),
	} {
		if other == a {
			t.Fatalf("collision on %s", other)
		}
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	defer s.Close()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	ctx := context.Background()
	if err := s.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if v, ok, _ := s.Get(ctx, "k"); !ok || string(v) != "v" {
		t.Fatalf("Get = %q %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("expired item returned")
	}
	s.sweep()
	if s.Len() != 0 {
		t.Fatalf("Len after sweep = %d", s.Len())
	}
}

func TestMemoryStoreClosed(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	_ = s.Close()
	if err := s.Set(context.Background(), "k", nil, 0); err != ErrClosed {
		t.Fatalf("Set after close = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close = %v", err)
	}
}

func TestSummariesRoundTrip(t *testing.T) {
	c := NewSummaries(NewMemoryStore(time.Hour), time.Hour)
	defer c.Close()
	ctx := context.Background()

	key := Key("some text", summarizer.LevelStudent, "1.0.0")
	if _, ok, err := c.Get(ctx, key); ok || err != nil {
		t.Fatalf("empty cache hit=%v err=%v", ok, err)
	}

	res := &summarizer.Result{Text: "A summary.", KeyPhrases: []string{"summary"}, Total: 4, Level: summarizer.LevelStudent, Algorithm: summarizer.Algorithm}
	if err := c.Put(ctx, key, res); err != nil {
		t.Fatal(err)
	}
	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("hit=%v err=%v", ok, err)
	}
	if got.Text != res.Text || got.Total != 4 || got.KeyPhrases[0] != "summary" {
		t.Fatalf("got %+v", got)
	}
}
