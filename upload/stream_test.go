package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func mustBuildPlan(t *testing.T, fileName string, fileSize int64) *Plan {
	t.Helper()
	plan, err := BuildPlan("testtok", []Field{{Name: "chat_id", Value: "123"}}, "document", fileName, fileSize)
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	return plan
}

func TestSend_BodyAndLengthExact(t *testing.T) {
	content := []byte("hello\n")
	path := writeTempFile(t, "hello.txt", content)
	plan := mustBuildPlan(t, "hello.txt", int64(len(content)))

	var gotBody []byte
	var gotLength string
	var gotContentType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLength = r.Header.Get("Content-Length")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	tr := NewHTTPTransport(0, 0)
	defer func() { _ = tr.Close() }()

	resp, err := tr.Send(context.Background(), &SendRequest{URL: ts.URL, Plan: plan, FilePath: path})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if resp.Status != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.Status)
	}

	want := append(append(append([]byte(nil), plan.Prefix...), content...), plan.Suffix...)
	if !bytes.Equal(gotBody, want) {
		t.Errorf("body mismatch:\ngot  %q\nwant %q", gotBody, want)
	}
	if gotLength != strconv.FormatInt(plan.TotalLength(), 10) {
		t.Errorf("Content-Length %s, want %d", gotLength, plan.TotalLength())
	}
	if int64(len(gotBody)) != plan.TotalLength() {
		t.Errorf("transmitted %d bytes, plan says %d", len(gotBody), plan.TotalLength())
	}
	if gotContentType != "multipart/form-data; boundary=testtok" {
		t.Errorf("unexpected content type %q", gotContentType)
	}
}

func TestSend_EmptyFile(t *testing.T) {
	path := writeTempFile(t, "empty.bin", nil)
	plan := mustBuildPlan(t, "empty.bin", 0)

	var gotBody []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	tr := NewHTTPTransport(0, 0)
	defer func() { _ = tr.Close() }()

	if _, err := tr.Send(context.Background(), &SendRequest{URL: ts.URL, Plan: plan, FilePath: path}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if int64(len(gotBody)) != plan.TotalLength() {
		t.Errorf("transmitted %d bytes, plan says %d", len(gotBody), plan.TotalLength())
	}
}

func TestSend_ProgressBoundedByChunkSize(t *testing.T) {
	const chunkSize = 1024
	content := bytes.Repeat([]byte("x"), 16*chunkSize)
	path := writeTempFile(t, "big.bin", content)
	plan := mustBuildPlan(t, "big.bin", int64(len(content)))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	tr := NewHTTPTransport(0, chunkSize)
	defer func() { _ = tr.Close() }()

	var last, maxDelta int64
	progress := func(sent int64) {
		if delta := sent - last; delta > maxDelta {
			maxDelta = delta
		}
		last = sent
	}

	_, err := tr.Send(context.Background(), &SendRequest{URL: ts.URL, Plan: plan, FilePath: path, Progress: progress})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if last != plan.TotalLength() {
		t.Errorf("progress reached %d, want %d", last, plan.TotalLength())
	}
	if maxDelta > chunkSize {
		t.Errorf("single read of %d bytes exceeds chunk size %d", maxDelta, chunkSize)
	}
}

func TestSend_MissingFile(t *testing.T) {
	plan := mustBuildPlan(t, "gone.txt", 1)
	tr := NewHTTPTransport(0, 0)
	defer func() { _ = tr.Close() }()

	_, err := tr.Send(context.Background(), &SendRequest{
		URL:      "http://127.0.0.1:0/",
		Plan:     plan,
		FilePath: filepath.Join(t.TempDir(), "gone.txt"),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSend_ConnectionFailure(t *testing.T) {
	content := []byte("x")
	path := writeTempFile(t, "f.txt", content)
	plan := mustBuildPlan(t, "f.txt", 1)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // refuse connections

	tr := NewHTTPTransport(0, 0)
	defer func() { _ = tr.Close() }()

	_, err := tr.Send(context.Background(), &SendRequest{URL: ts.URL, Plan: plan, FilePath: path})
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}

func TestSend_ContextCancellation(t *testing.T) {
	content := bytes.Repeat([]byte("x"), 1<<20)
	path := writeTempFile(t, "slow.bin", content)
	plan := mustBuildPlan(t, "slow.bin", int64(len(content)))

	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	tr := NewHTTPTransport(0, 0)
	defer func() { _ = tr.Close() }()

	_, err := tr.Send(ctx, &SendRequest{URL: ts.URL, Plan: plan, FilePath: path})
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected ErrTransport on cancellation, got %v", err)
	}
}

func TestReasonPhrase(t *testing.T) {
	if got := reasonPhrase("400 Bad Request", 400); got != "Bad Request" {
		t.Errorf("got %q", got)
	}
	if got := reasonPhrase("200 OK", 200); got != "OK" {
		t.Errorf("got %q", got)
	}
}
