// Package metrics provides per-process metrics collection for courier.
//
// The Collector accumulates counters across uploads. It is a leaf package
// with no internal dependencies. All increment methods are nil-receiver
// safe so wiring metrics stays optional throughout the upload path.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Upload lifecycle
	UploadsStarted   int64
	UploadsSucceeded int64
	UploadsFailed    int64

	// Transport
	SendSuccess int64
	SendFailure int64
	BytesSent   int64

	// Best-effort post-send hooks
	JournalWriteSuccess int64
	JournalWriteFailure int64
	MirrorWriteSuccess  int64
	MirrorWriteFailure  int64
}

// Collector accumulates metrics across uploads.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	uploadsStarted   int64
	uploadsSucceeded int64
	uploadsFailed    int64

	sendSuccess int64
	sendFailure int64
	bytesSent   int64

	journalWriteSuccess int64
	journalWriteFailure int64
	mirrorWriteSuccess  int64
	mirrorWriteFailure  int64
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// IncUploadStarted records an upload attempt.
func (c *Collector) IncUploadStarted() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.uploadsStarted++
	c.mu.Unlock()
}

// IncUploadSucceeded records a confirmed upload.
func (c *Collector) IncUploadSucceeded() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.uploadsSucceeded++
	c.mu.Unlock()
}

// IncUploadFailed records a failed upload.
func (c *Collector) IncUploadFailed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.uploadsFailed++
	c.mu.Unlock()
}

// IncSendSuccess records a transport send that returned a response.
func (c *Collector) IncSendSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.sendSuccess++
	c.mu.Unlock()
}

// IncSendFailure records a transport-level send failure.
func (c *Collector) IncSendFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.sendFailure++
	c.mu.Unlock()
}

// AddBytesSent adds the framed body length of a completed send.
func (c *Collector) AddBytesSent(n int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.bytesSent += n
	c.mu.Unlock()
}

// IncJournalWriteSuccess records a receipt journal append.
func (c *Collector) IncJournalWriteSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.journalWriteSuccess++
	c.mu.Unlock()
}

// IncJournalWriteFailure records a failed receipt journal append.
func (c *Collector) IncJournalWriteFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.journalWriteFailure++
	c.mu.Unlock()
}

// IncMirrorWriteSuccess records a completed mirror archive.
func (c *Collector) IncMirrorWriteSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.mirrorWriteSuccess++
	c.mu.Unlock()
}

// IncMirrorWriteFailure records a failed mirror archive.
func (c *Collector) IncMirrorWriteFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.mirrorWriteFailure++
	c.mu.Unlock()
}

// Snapshot returns an immutable copy of all counters.
// Safe to call on a nil Collector.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		UploadsStarted:      c.uploadsStarted,
		UploadsSucceeded:    c.uploadsSucceeded,
		UploadsFailed:       c.uploadsFailed,
		SendSuccess:         c.sendSuccess,
		SendFailure:         c.sendFailure,
		BytesSent:           c.bytesSent,
		JournalWriteSuccess: c.journalWriteSuccess,
		JournalWriteFailure: c.journalWriteFailure,
		MirrorWriteSuccess:  c.mirrorWriteSuccess,
		MirrorWriteFailure:  c.mirrorWriteFailure,
	}
}
