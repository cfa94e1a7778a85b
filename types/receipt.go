// Package types holds shared data types for courier.
package types

import "time"

// Receipt records one acknowledged document upload.
// Written to the local journal after the remote endpoint confirms the
// send; FileName/FileSize/MimeType may be empty when the remote response
// omits the nested document descriptor.
type Receipt struct {
	MessageID int64     `msgpack:"message_id" json:"message_id" yaml:"message_id"`
	ChatID    string    `msgpack:"chat_id" json:"chat_id" yaml:"chat_id"`
	FileName  string    `msgpack:"file_name" json:"file_name" yaml:"file_name"`
	FileSize  int64     `msgpack:"file_size" json:"file_size" yaml:"file_size"`
	MimeType  string    `msgpack:"mime_type,omitempty" json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	LocalPath string    `msgpack:"local_path" json:"local_path" yaml:"local_path"`
	SentAt    time.Time `msgpack:"sent_at" json:"sent_at" yaml:"sent_at"`
}
