// Package journal implements the local upload receipt log.
//
// Receipts are appended as 4-byte big-endian length-prefixed msgpack
// frames. The format is append-only and self-delimiting, so a scan can
// distinguish a clean end of file from a truncated tail.
package journal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/botpost/courier/iox"
	"github.com/botpost/courier/types"
)

// Frame size constants.
const (
	// MaxFrameSize is the maximum frame size (64 KiB), including length prefix.
	// Receipts are small flat records; anything larger is corruption.
	MaxFrameSize = 64 * 1024
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4
	// MaxPayloadSize is the maximum payload size.
	MaxPayloadSize = MaxFrameSize - LengthPrefixSize
)

// FrameErrorKind classifies frame decoding errors.
type FrameErrorKind int

const (
	// FrameErrorPartial indicates a truncated or incomplete frame.
	FrameErrorPartial FrameErrorKind = iota
	// FrameErrorTooLarge indicates a frame exceeding MaxFrameSize.
	FrameErrorTooLarge
	// FrameErrorDecode indicates a msgpack decoding error.
	FrameErrorDecode
)

// FrameError represents a frame encoding or decoding error.
type FrameError struct {
	Kind FrameErrorKind
	Msg  string
	Err  error
}

func (e *FrameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// IsFrameError reports whether err is a FrameError of the given kind.
func IsFrameError(err error, kind FrameErrorKind) bool {
	var frameErr *FrameError
	if errors.As(err, &frameErr) {
		return frameErr.Kind == kind
	}
	return false
}

// Journal is an append-only receipt log backed by a single file.
// Safe for concurrent appends from one process.
type Journal struct {
	mu   sync.Mutex
	file *os.File
}

// Open opens (or creates) the journal at path for appending.
func Open(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return &Journal{file: f}, nil
}

// Append encodes the receipt and writes one frame. The prefix and
// payload go out in a single write so a crash cannot interleave frames
// from concurrent appenders.
func (j *Journal) Append(r types.Receipt) error {
	payload, err := msgpack.Marshal(&r)
	if err != nil {
		return &FrameError{Kind: FrameErrorDecode, Msg: "encode receipt", Err: err}
	}
	if len(payload) > MaxPayloadSize {
		return &FrameError{
			Kind: FrameErrorTooLarge,
			Msg:  fmt.Sprintf("receipt payload %d exceeds maximum %d", len(payload), MaxPayloadSize),
		}
	}

	frame := make([]byte, LengthPrefixSize+len(payload))
	binary.BigEndian.PutUint32(frame[:LengthPrefixSize], uint32(len(payload)))
	copy(frame[LengthPrefixSize:], payload)

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.file.Write(frame); err != nil {
		return fmt.Errorf("append receipt: %w", err)
	}
	return nil
}

// Close releases the journal file handle.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// ReadAll scans the journal at path and returns every receipt in append
// order. A missing file yields an empty slice. A truncated tail or an
// oversized frame returns the receipts read so far alongside a FrameError.
func ReadAll(path string) ([]types.Receipt, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	defer iox.DiscardClose(f)

	var receipts []types.Receipt
	dec := &frameDecoder{reader: f}
	for {
		payload, err := dec.readFrame()
		if err == io.EOF {
			return receipts, nil
		}
		if err != nil {
			return receipts, err
		}
		var r types.Receipt
		if err := msgpack.Unmarshal(payload, &r); err != nil {
			return receipts, &FrameError{Kind: FrameErrorDecode, Msg: "decode receipt", Err: err}
		}
		receipts = append(receipts, r)
	}
}

// frameDecoder decodes length-prefixed frames from a stream.
type frameDecoder struct {
	reader io.Reader
}

// readFrame reads a single frame.
//
// Errors:
//   - io.EOF: stream ended cleanly (no more frames)
//   - *FrameError with Kind=FrameErrorPartial: incomplete frame
//   - *FrameError with Kind=FrameErrorTooLarge: frame exceeds limit
func (d *frameDecoder) readFrame() ([]byte, error) {
	var lengthBuf [LengthPrefixSize]byte
	_, err := io.ReadFull(d.reader, lengthBuf[:])
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &FrameError{
			Kind: FrameErrorPartial,
			Msg:  "failed to read length prefix",
			Err:  err,
		}
	}

	payloadSize := binary.BigEndian.Uint32(lengthBuf[:])
	if payloadSize > MaxPayloadSize {
		return nil, &FrameError{
			Kind: FrameErrorTooLarge,
			Msg:  fmt.Sprintf("payload size %d exceeds maximum %d", payloadSize, MaxPayloadSize),
		}
	}

	payload := make([]byte, payloadSize)
	if _, err := io.ReadFull(d.reader, payload); err != nil {
		return nil, &FrameError{
			Kind: FrameErrorPartial,
			Msg:  "failed to read payload",
			Err:  err,
		}
	}
	return payload, nil
}
