package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/botpost/courier/iox"
)

// DefaultChunkSize is the file read granularity (1 MiB). Memory held for
// file content during a send is bounded by this regardless of file size.
const DefaultChunkSize = 1 << 20

// DefaultTimeout is the whole-request transport timeout.
const DefaultTimeout = 120 * time.Second

// SendRequest carries one framed upload for the transport.
type SendRequest struct {
	// URL is the full endpoint URL.
	URL string
	// Plan is the framing consumed by this send.
	Plan *Plan
	// FilePath is the canonical path of the file to stream.
	FilePath string
	// Progress, if non-nil, receives the cumulative count of body bytes
	// handed to the connection. Called synchronously from the send path.
	Progress func(sent int64)
}

// Response is a raw HTTP response: status, reason phrase, full body.
// Responses are small JSON documents, so the body is read whole.
type Response struct {
	Status int
	Reason string
	Body   []byte
}

// Transport abstracts the network send for one framed upload.
// Implementations must perform no retries: a document upload is not
// safely assumed idempotent, so retry policy belongs to the caller.
type Transport interface {
	Send(ctx context.Context, req *SendRequest) (*Response, error)
	Close() error
}

// HTTPTransport sends framed uploads over net/http with an exact
// Content-Length (never chunked transfer-encoding). The file is streamed
// through a chunk-capped reader, so memory use is bounded by the chunk
// size for files from 0 bytes to multi-gigabyte.
type HTTPTransport struct {
	client    *http.Client
	chunkSize int64
}

// NewHTTPTransport creates a transport. Non-positive timeout and
// chunkSize fall back to DefaultTimeout and DefaultChunkSize.
func NewHTTPTransport(timeout time.Duration, chunkSize int64) *HTTPTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &HTTPTransport{
		client:    &http.Client{Timeout: timeout},
		chunkSize: chunkSize,
	}
}

// Send performs a single POST of the framed body and blocks until the
// full response is received. The open file handle and the response body
// are released on every exit path. Cancelling ctx closes the in-flight
// request body promptly.
func (t *HTTPTransport) Send(ctx context.Context, req *SendRequest) (*Response, error) {
	f, err := os.Open(req.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newError(ErrNotFound, "send", err)
		}
		return nil, newError(ErrTransport, "send", err)
	}
	defer iox.DiscardClose(f)

	var body io.Reader = io.MultiReader(
		bytes.NewReader(req.Plan.Prefix),
		iox.NewChunkReader(f, t.chunkSize),
		bytes.NewReader(req.Plan.Suffix),
	)
	if req.Progress != nil {
		body = &progressReader{r: body, fn: req.Progress}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, body)
	if err != nil {
		return nil, newError(ErrTransport, "send", fmt.Errorf("create request: %w", err))
	}
	// Exact length from the framing plan; setting it suppresses chunked
	// transfer-encoding for the reader-backed body.
	httpReq.ContentLength = req.Plan.TotalLength()
	httpReq.Header.Set("Content-Type", req.Plan.ContentType())

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, newError(ErrTransport, "send", err)
	}
	defer iox.DiscardClose(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UploadError{
			Kind:   ErrTransport,
			Op:     "send",
			Status: resp.StatusCode,
			Err:    fmt.Errorf("read response: %w", err),
		}
	}

	return &Response{
		Status: resp.StatusCode,
		Reason: reasonPhrase(resp.Status, resp.StatusCode),
		Body:   raw,
	}, nil
}

// Close releases idle connections.
func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

// reasonPhrase strips the numeric code from an http.Response.Status
// like "400 Bad Request".
func reasonPhrase(status string, code int) string {
	return strings.TrimPrefix(status, strconv.Itoa(code)+" ")
}

// progressReader reports cumulative bytes read through it.
type progressReader struct {
	r    io.Reader
	fn   func(int64)
	sent int64
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.fn(p.sent)
	}
	return n, err
}

// Verify HTTPTransport implements Transport.
var _ Transport = (*HTTPTransport)(nil)
