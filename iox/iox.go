// Package iox provides I/O helpers for resource cleanup and bounded reads.
package iox

import "io"

// DiscardClose closes c and discards the error.
// Use in defer statements where close errors are unactionable:
//
//	defer iox.DiscardClose(f)
func DiscardClose(c io.Closer) { _ = c.Close() }

// CloseFunc returns a cleanup function that closes c.
// Designed for t.Cleanup and b.Cleanup registration:
//
//	t.Cleanup(iox.CloseFunc(client))
func CloseFunc(c io.Closer) func() {
	return func() { _ = c.Close() }
}

// Excerpt returns at most the first max bytes of b as a copy.
// Used to bound raw response bodies carried inside error values.
func Excerpt(b []byte, max int) []byte {
	if len(b) <= max {
		return append([]byte(nil), b...)
	}
	return append([]byte(nil), b[:max]...)
}

// ChunkReader caps the size of each Read on an underlying reader.
// It does not buffer: each Read passes a sub-slice of the caller's
// buffer through, so memory held per read never exceeds the cap
// regardless of how large a buffer the caller supplies.
type ChunkReader struct {
	r   io.Reader
	cap int64
}

// NewChunkReader wraps r so no single Read exceeds max bytes.
// A non-positive max leaves reads uncapped.
func NewChunkReader(r io.Reader, max int64) *ChunkReader {
	return &ChunkReader{r: r, cap: max}
}

// Read implements io.Reader.
func (c *ChunkReader) Read(p []byte) (int, error) {
	if c.cap > 0 && int64(len(p)) > c.cap {
		p = p[:c.cap]
	}
	return c.r.Read(p)
}
