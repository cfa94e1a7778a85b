package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/botpost/courier/log"
	"github.com/botpost/courier/metrics"
	"github.com/botpost/courier/types"
)

// Config is the read-only client configuration, established once at
// startup and validated by an external collaborator.
type Config struct {
	// Host is the API host ("api.telegram.org") or a full http(s) base
	// URL, which tests use to target local servers.
	Host string
	// Token is the bot auth token. Never logged.
	Token string
	// DefaultChatID is the recipient used when a request names none.
	DefaultChatID string
	// SandboxRoot restricts uploadable paths when set. Empty disables
	// the sandbox.
	SandboxRoot string
	// ChunkSize is the file read granularity (default DefaultChunkSize).
	ChunkSize int64
	// Timeout is the whole-request transport timeout (default DefaultTimeout).
	Timeout time.Duration
}

// Request describes one document upload. Owned by the caller for the
// duration of one call; not persisted.
type Request struct {
	// FilePath is the local file to send.
	FilePath string
	// Caption is an optional message caption.
	Caption string
	// ChatID overrides the configured default recipient when set.
	ChatID string
	// Silent sends the document without notifying the recipient.
	Silent bool
	// Protect forbids forwarding and saving of the sent document.
	Protect bool
	// Progress, if non-nil, receives (sent, total) body byte counts
	// while the upload streams.
	Progress func(sent, total int64)
}

// ReceiptSink records acknowledged uploads. Failures are best-effort:
// the client logs and counts them but never fails the upload.
type ReceiptSink interface {
	Append(r types.Receipt) error
}

// Archiver mirrors the sent file to secondary storage after a
// confirmed send. Best-effort, like ReceiptSink.
type Archiver interface {
	Archive(ctx context.Context, localPath, remoteName string) error
}

// Client is the public upload surface. Each call is one synchronous
// sequence of blocking operations with its own file handle and request;
// a Client is safe for concurrent use.
type Client struct {
	cfg       Config
	transport Transport
	logger    *log.SugaredLogger
	collector *metrics.Collector
	receipts  ReceiptSink
	archiver  Archiver
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the default HTTP transport. Used by tests and
// by callers that need connection reuse policies of their own.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithLogger sets the client logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l.Sugar() }
}

// WithMetrics attaches a metrics collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.collector = m }
}

// WithReceipts attaches a receipt journal.
func WithReceipts(s ReceiptSink) Option {
	return func(c *Client) { c.receipts = s }
}

// WithArchiver attaches a post-send archiver.
func WithArchiver(a Archiver) Option {
	return func(c *Client) { c.archiver = a }
}

// New creates a Client. The transport is instrumented when a metrics
// collector is attached.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{cfg: cfg, logger: log.NewNop().Sugar()}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport(cfg.Timeout, cfg.ChunkSize)
	}
	if c.collector != nil {
		c.transport = NewInstrumentedTransport(c.transport, c.collector)
	}
	return c
}

// UploadDocument sends one local file to the configured endpoint and
// returns a one-line confirmation. Every failure is a typed *UploadError;
// nothing is retried internally because a repeated send could duplicate
// a delivered document.
func (c *Client) UploadDocument(ctx context.Context, req Request) (string, error) {
	if c.cfg.Token == "" {
		return "", newError(ErrConfig, "upload", fmt.Errorf("no auth token configured"))
	}
	chatID := req.ChatID
	if chatID == "" {
		chatID = c.cfg.DefaultChatID
	}
	if chatID == "" {
		return "", newError(ErrConfig, "upload", fmt.Errorf("no recipient: pass a chat id or configure a default"))
	}

	path, err := ResolveWithin(req.FilePath, c.cfg.SandboxRoot)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", newError(ErrNotFound, "stat", err)
	}
	if !info.Mode().IsRegular() {
		return "", newError(ErrNotFound, "stat", fmt.Errorf("%s is not a regular file", path))
	}

	boundary, err := NewBoundary()
	if err != nil {
		return "", newError(ErrTransport, "frame", err)
	}

	fields := []Field{{Name: "chat_id", Value: chatID}}
	if req.Caption != "" {
		fields = append(fields, Field{Name: "caption", Value: req.Caption})
	}
	if req.Silent {
		fields = append(fields, Field{Name: "disable_notification", Value: "true"})
	}
	if req.Protect {
		fields = append(fields, Field{Name: "protect_content", Value: "true"})
	}

	fileName := filepath.Base(path)
	plan, err := BuildPlan(boundary, fields, "document", fileName, info.Size())
	if err != nil {
		return "", newError(ErrConfig, "frame", err)
	}

	send := &SendRequest{
		URL:      endpointURL(c.cfg.Host, c.cfg.Token),
		Plan:     plan,
		FilePath: path,
	}
	if req.Progress != nil {
		total := plan.TotalLength()
		progress := req.Progress
		send.Progress = func(sent int64) { progress(sent, total) }
	}

	c.collector.IncUploadStarted()
	c.logger.Infow("sending document",
		"file", fileName, "size", info.Size(), "chat_id", chatID)

	resp, err := c.transport.Send(ctx, send)
	if err != nil {
		c.collector.IncUploadFailed()
		return "", err
	}

	result, err := parseAck(resp)
	if err != nil {
		c.collector.IncUploadFailed()
		return "", err
	}
	c.collector.IncUploadSucceeded()

	c.record(ctx, chatID, path, result)

	return fmt.Sprintf("Uploaded: message_id=%d, file_name=%s, file_size=%d",
		result.MessageID, result.FileName, result.FileSize), nil
}

// record runs the best-effort post-send hooks: receipt journal and
// archiver. Failures are logged and counted, never propagated.
func (c *Client) record(ctx context.Context, chatID, path string, result *Result) {
	if c.receipts != nil {
		receipt := types.Receipt{
			MessageID: result.MessageID,
			ChatID:    chatID,
			FileName:  result.FileName,
			FileSize:  result.FileSize,
			MimeType:  result.MimeType,
			LocalPath: path,
			SentAt:    time.Now().UTC(),
		}
		if err := c.receipts.Append(receipt); err != nil {
			c.collector.IncJournalWriteFailure()
			c.logger.Warnw("receipt journal write failed", "error", err)
		} else {
			c.collector.IncJournalWriteSuccess()
		}
	}

	if c.archiver != nil {
		remoteName := result.FileName
		if remoteName == "" {
			remoteName = filepath.Base(path)
		}
		if err := c.archiver.Archive(ctx, path, remoteName); err != nil {
			c.collector.IncMirrorWriteFailure()
			c.logger.Warnw("mirror archive failed", "error", err)
		} else {
			c.collector.IncMirrorWriteSuccess()
		}
	}
}

// Close releases transport resources.
func (c *Client) Close() error {
	return c.transport.Close()
}

// endpointURL builds the upload endpoint from the host and token.
// A host carrying a scheme is taken as a full base URL.
func endpointURL(host, token string) string {
	base := host
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return strings.TrimSuffix(base, "/") + "/bot" + token + "/sendDocument"
}
