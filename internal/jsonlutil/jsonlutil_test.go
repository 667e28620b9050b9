package jsonlutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestStart_OneLinePerValue(t *testing.T) {
	var buf bytes.Buffer
	in, done := Start[int](&buf, 1, func(enc *json.Encoder, v int) error {
		return enc.Encode(map[string]int{"n": v})
	}, func(error) bool { return false })
	for i := 1; i <= 3; i++ {
		in <- i
	}
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("writer err: %v", err)
	}
	if got, want := buf.String(), "{\"n\":1}\n{\"n\":2}\n{\"n\":3}\n"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestStart_EncodeErrorDrains(t *testing.T) {
	boom := errors.New("boom")
	in, done := Start[int](&bytes.Buffer{}, 1, func(*json.Encoder, int) error { return boom },
		func(error) bool { return false })
	for i := 0; i < 100; i++ {
		in <- i
	}
	close(in)
	if err := <-done; !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}
