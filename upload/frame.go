package upload

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// crlf is the line terminator required by multipart/form-data framing.
const crlf = "\r\n"

// boundaryEntropyBytes sizes the random boundary token. 16 bytes of
// entropy makes an accidental collision with part content practically
// impossible.
const boundaryEntropyBytes = 16

// Field is one ordered text field of a multipart body.
type Field struct {
	Name  string
	Value string
}

// Plan is the byte-exact framing of one multipart upload. The file bytes
// themselves are not part of the plan; they sit between Prefix and Suffix
// and are streamed by the transport. A Plan is immutable once built and
// consumed by exactly one send.
type Plan struct {
	// Boundary is the random per-request boundary token.
	Boundary string
	// Prefix is every body byte before the file content: all text fields
	// plus the file part's opening boundary and headers.
	Prefix []byte
	// Suffix is the closing boundary marker after the file content.
	Suffix []byte
	// FileSize is the size of the file content in bytes.
	FileSize int64
}

// TotalLength is the exact Content-Length of the framed body:
// len(Prefix) + FileSize + len(Suffix). It must be known before any
// header is sent because the transport declares an exact length and
// never uses chunked transfer-encoding.
func (p *Plan) TotalLength() int64 {
	return int64(len(p.Prefix)) + p.FileSize + int64(len(p.Suffix))
}

// ContentType returns the request Content-Type header value.
func (p *Plan) ContentType() string {
	return "multipart/form-data; boundary=" + p.Boundary
}

// NewBoundary returns a random high-entropy boundary token.
func NewBoundary() (string, error) {
	var buf [boundaryEntropyBytes]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("boundary entropy: %w", err)
	}
	return "courier" + hex.EncodeToString(buf[:]), nil
}

// BuildPlan computes the framing for the given boundary, ordered text
// fields, and one file part. Output is deterministic: a fixed boundary
// and field set produce identical bytes on every call.
//
// Any field name, field value, or file name containing the boundary
// substring is rejected: the framer does not escape part content, so a
// collision would corrupt the body silently.
func BuildPlan(boundary string, fields []Field, fileField, fileName string, fileSize int64) (*Plan, error) {
	if boundary == "" {
		return nil, fmt.Errorf("empty boundary")
	}
	if fileSize < 0 {
		return nil, fmt.Errorf("negative file size %d", fileSize)
	}
	for _, f := range fields {
		if err := checkBoundaryCollision(boundary, f.Name, f.Value); err != nil {
			return nil, err
		}
	}
	if err := checkBoundaryCollision(boundary, fileField, fileName); err != nil {
		return nil, err
	}

	var prefix bytes.Buffer
	for _, f := range fields {
		prefix.WriteString("--" + boundary + crlf)
		prefix.WriteString(`Content-Disposition: form-data; name="` + f.Name + `"` + crlf)
		prefix.WriteString(crlf)
		prefix.WriteString(f.Value)
		prefix.WriteString(crlf)
	}
	prefix.WriteString("--" + boundary + crlf)
	prefix.WriteString(`Content-Disposition: form-data; name="` + fileField + `"; filename="` + fileName + `"` + crlf)
	prefix.WriteString("Content-Type: application/octet-stream" + crlf)
	prefix.WriteString(crlf)

	suffix := []byte(crlf + "--" + boundary + "--" + crlf)

	return &Plan{
		Boundary: boundary,
		Prefix:   prefix.Bytes(),
		Suffix:   suffix,
		FileSize: fileSize,
	}, nil
}

// checkBoundaryCollision rejects part content containing the boundary.
func checkBoundaryCollision(boundary string, parts ...string) error {
	for _, p := range parts {
		if strings.Contains(p, boundary) {
			return fmt.Errorf("part content contains boundary token %q", boundary)
		}
	}
	return nil
}
