package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestSugaredLogger_Debugw(t *testing.T) {
	var buf bytes.Buffer
	logger := NewNop().WithOutput(&buf)

	logger.Sugar().Debugw("send metrics", "bytes_sent", int64(42))

	out := buf.String()
	if !strings.Contains(out, "send metrics") {
		t.Errorf("entry missing message: %q", out)
	}
	if !strings.Contains(out, "bytes_sent") || !strings.Contains(out, "42") {
		t.Errorf("entry missing key-value pair: %q", out)
	}
}

func TestLogger_WithOutputEmitsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewNop().WithOutput(&buf)

	logger.Debug("trace entry", map[string]any{"k": "v"})

	if !strings.Contains(buf.String(), "trace entry") {
		t.Errorf("debug entry not emitted: %q", buf.String())
	}
}
