package iox

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

type closeRecorder struct {
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestDiscardClose(t *testing.T) {
	c := &closeRecorder{}
	DiscardClose(c)
	if !c.closed {
		t.Error("Close not called")
	}
}

func TestCloseFunc(t *testing.T) {
	c := &closeRecorder{}
	fn := CloseFunc(c)
	if c.closed {
		t.Error("Close called before cleanup function ran")
	}
	fn()
	if !c.closed {
		t.Error("Close not called")
	}
}

func TestExcerpt_ShortInput(t *testing.T) {
	b := []byte("short")
	got := Excerpt(b, 200)
	if !bytes.Equal(got, b) {
		t.Errorf("got %q", got)
	}
	// Must be a copy, not an alias.
	got[0] = 'X'
	if b[0] == 'X' {
		t.Error("excerpt aliases input")
	}
}

func TestExcerpt_LongInput(t *testing.T) {
	b := bytes.Repeat([]byte("a"), 500)
	got := Excerpt(b, 200)
	if len(got) != 200 {
		t.Errorf("length %d, want 200", len(got))
	}
}

func TestChunkReader_CapsReads(t *testing.T) {
	src := strings.NewReader(strings.Repeat("x", 10000))
	r := NewChunkReader(src, 128)

	buf := make([]byte, 4096)
	total := 0
	for {
		n, err := r.Read(buf)
		if n > 128 {
			t.Fatalf("read returned %d bytes, cap is 128", n)
		}
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read: %v", err)
		}
	}
	if total != 10000 {
		t.Errorf("read %d bytes total, want 10000", total)
	}
}

func TestChunkReader_UncappedWhenNonPositive(t *testing.T) {
	src := strings.NewReader(strings.Repeat("x", 1000))
	r := NewChunkReader(src, 0)
	buf := make([]byte, 1000)
	n, _ := r.Read(buf)
	if n != 1000 {
		t.Errorf("expected full read, got %d", n)
	}
}
