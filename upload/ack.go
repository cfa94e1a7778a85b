package upload

import (
	"encoding/json"
	"fmt"

	"github.com/botpost/courier/iox"
)

// Result is the validated remote acknowledgement of one upload.
// FileName, FileSize, and MimeType are optional: the remote schema does
// not guarantee the nested document descriptor, and absence is not an
// error. Zero values mean absent.
type Result struct {
	MessageID int64
	FileName  string
	FileSize  int64
	MimeType  string
}

// ackEnvelope is the remote JSON acknowledgement document.
type ackEnvelope struct {
	OK          bool        `json:"ok"`
	Description string      `json:"description"`
	Result      *ackMessage `json:"result"`
}

type ackMessage struct {
	MessageID int64        `json:"message_id"`
	Document  *ackDocument `json:"document"`
}

type ackDocument struct {
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type"`
}

// parseAck validates a raw response into a Result or a typed error.
//
// Non-JSON bodies fail with ErrProtocol carrying the status, reason, and
// a bounded excerpt of the raw body. Success requires both a 2xx status
// and a true acknowledgement flag; anything else fails with ErrRemote
// carrying the remote description when present.
func parseAck(resp *Response) (*Result, error) {
	var env ackEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, &UploadError{
			Kind:   ErrProtocol,
			Op:     "validate",
			Status: resp.Status,
			Reason: resp.Reason,
			Body:   iox.Excerpt(resp.Body, BodyExcerptLimit),
			Err:    err,
		}
	}

	if resp.Status < 200 || resp.Status >= 300 || !env.OK {
		reason := resp.Reason
		if env.Description != "" {
			reason = env.Description
		}
		return nil, &UploadError{
			Kind:   ErrRemote,
			Op:     "validate",
			Status: resp.Status,
			Reason: reason,
			Body:   iox.Excerpt(resp.Body, BodyExcerptLimit),
			Err:    fmt.Errorf("acknowledgement flag false or non-2xx status"),
		}
	}

	result := &Result{}
	if env.Result != nil {
		result.MessageID = env.Result.MessageID
		if env.Result.Document != nil {
			result.FileName = env.Result.Document.FileName
			result.FileSize = env.Result.Document.FileSize
			result.MimeType = env.Result.Document.MimeType
		}
	}
	return result, nil
}
