package upload

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseAck_Success(t *testing.T) {
	resp := &Response{
		Status: 200,
		Reason: "OK",
		Body:   []byte(`{"ok":true,"result":{"message_id":42,"document":{"file_name":"a.txt","file_size":3}}}`),
	}
	result, err := parseAck(resp)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.MessageID != 42 {
		t.Errorf("message id %d, want 42", result.MessageID)
	}
	if result.FileName != "a.txt" {
		t.Errorf("file name %q, want a.txt", result.FileName)
	}
	if result.FileSize != 3 {
		t.Errorf("file size %d, want 3", result.FileSize)
	}
}

func TestParseAck_MimeType(t *testing.T) {
	resp := &Response{
		Status: 200,
		Body:   []byte(`{"ok":true,"result":{"message_id":1,"document":{"file_name":"a.pdf","file_size":9,"mime_type":"application/pdf"}}}`),
	}
	result, err := parseAck(resp)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.MimeType != "application/pdf" {
		t.Errorf("mime type %q", result.MimeType)
	}
}

func TestParseAck_MissingDocumentIsNotAnError(t *testing.T) {
	resp := &Response{
		Status: 200,
		Body:   []byte(`{"ok":true,"result":{"message_id":7}}`),
	}
	result, err := parseAck(resp)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.MessageID != 7 {
		t.Errorf("message id %d, want 7", result.MessageID)
	}
	if result.FileName != "" || result.FileSize != 0 {
		t.Errorf("expected absent document fields, got %q/%d", result.FileName, result.FileSize)
	}
}

func TestParseAck_MissingResultIsNotAnError(t *testing.T) {
	resp := &Response{Status: 200, Body: []byte(`{"ok":true}`)}
	result, err := parseAck(resp)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.MessageID != 0 {
		t.Errorf("message id %d, want 0", result.MessageID)
	}
}

func TestParseAck_RemoteFailure(t *testing.T) {
	resp := &Response{
		Status: 400,
		Reason: "Bad Request",
		Body:   []byte(`{"ok":false,"description":"Bad Request: chat not found"}`),
	}
	_, err := parseAck(resp)
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}

	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatal("expected *UploadError")
	}
	if uploadErr.Status != 400 {
		t.Errorf("status %d, want 400", uploadErr.Status)
	}
	if !strings.Contains(uploadErr.Reason, "Bad Request") {
		t.Errorf("reason %q should contain remote description", uploadErr.Reason)
	}
}

func TestParseAck_FalseFlagWith2xxStatus(t *testing.T) {
	resp := &Response{Status: 200, Reason: "OK", Body: []byte(`{"ok":false}`)}
	if _, err := parseAck(resp); !errors.Is(err, ErrRemote) {
		t.Errorf("expected ErrRemote, got %v", err)
	}
}

func TestParseAck_TrueFlagWithNon2xxStatus(t *testing.T) {
	resp := &Response{Status: 500, Reason: "Internal Server Error", Body: []byte(`{"ok":true}`)}
	if _, err := parseAck(resp); !errors.Is(err, ErrRemote) {
		t.Errorf("expected ErrRemote, got %v", err)
	}
}

func TestParseAck_NonJSON(t *testing.T) {
	resp := &Response{Status: 200, Reason: "OK", Body: []byte("not json")}
	_, err := parseAck(resp)
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("expected ErrProtocol, got %v", err)
	}

	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatal("expected *UploadError")
	}
	if !bytes.Equal(uploadErr.Body, []byte("not json")) {
		t.Errorf("body excerpt %q", uploadErr.Body)
	}
}

func TestParseAck_ExcerptBounded(t *testing.T) {
	big := bytes.Repeat([]byte("<"), 10*BodyExcerptLimit)
	resp := &Response{Status: 502, Reason: "Bad Gateway", Body: big}
	_, err := parseAck(resp)

	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatal("expected *UploadError")
	}
	if len(uploadErr.Body) != BodyExcerptLimit {
		t.Errorf("excerpt length %d, want %d", len(uploadErr.Body), BodyExcerptLimit)
	}
}
