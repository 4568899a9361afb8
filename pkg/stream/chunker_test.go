package stream

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestChunkedReaderChunks(t *testing.T) {
	cr := NewChunkedReader(strings.NewReader("abcdefghij"), 4, 0)
	var got []string
	for {
		chunk, err := cr.NextChunk()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, string(chunk))
	}
	if strings.Join(got, "|") != "abcd|efgh|ij" {
		t.Fatalf("chunks = %v", got)
	}
	if cr.BytesRead() != 10 {
		t.Fatalf("BytesRead = %d", cr.BytesRead())
	}
	if _, err := cr.NextChunk(); !errors.Is(err, io.EOF) {
		t.Fatalf("after EOF err = %v", err)
	}
}

func TestChunkedReaderLimit(t *testing.T) {
	_, err := NewChunkedReader(strings.NewReader(strings.Repeat("x", 100)), 16, 50).ReadAll()
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}

	data, err := NewChunkedReader(strings.NewReader(strings.Repeat("x", 50)), 16, 50).ReadAll()
	if err != nil || len(data) != 50 {
		t.Fatalf("len = %d err = %v", len(data), err)
	}
}
