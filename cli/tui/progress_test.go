package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(fileName string) uploadModel {
	return uploadModel{
		fileName: fileName,
		bar:      progress.New(progress.WithDefaultGradient()),
	}
}

func TestUploadModel_ProgressUpdatesCounters(t *testing.T) {
	m := newTestModel("a.txt")

	next, cmd := m.Update(progressMsg{sent: 512, total: 2048})
	if cmd != nil {
		t.Error("progress message should not produce a command")
	}
	got := next.(uploadModel)
	if got.sent != 512 || got.total != 2048 {
		t.Errorf("sent/total = %d/%d", got.sent, got.total)
	}
}

func TestUploadModel_DoneQuits(t *testing.T) {
	m := newTestModel("a.txt")
	m.sent, m.total = 100, 200

	next, cmd := m.Update(doneMsg{})
	if cmd == nil {
		t.Fatal("done message should quit")
	}
	got := next.(uploadModel)
	if !got.done {
		t.Error("model should be marked done")
	}
	if got.sent != got.total {
		t.Errorf("successful finish should fill the bar, sent=%d total=%d", got.sent, got.total)
	}
}

func TestUploadModel_DoneWithErrorKeepsSent(t *testing.T) {
	m := newTestModel("a.txt")
	m.sent, m.total = 100, 200

	next, _ := m.Update(doneMsg{err: errors.New("connection reset")})
	got := next.(uploadModel)
	if got.sent != 100 {
		t.Errorf("failed finish should not fill the bar, sent=%d", got.sent)
	}
	if !strings.Contains(got.View(), "connection reset") {
		t.Error("view should show the failure")
	}
}

func TestUploadModel_QuitKeys(t *testing.T) {
	m := newTestModel("a.txt")

	for _, key := range []string{"ctrl+c", "q"} {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		if key == "ctrl+c" {
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Errorf("key %q should quit", key)
		}
	}
}

func TestUploadModel_ViewShowsFileName(t *testing.T) {
	m := newTestModel("report.pdf")
	m.sent, m.total = 1, 2
	if !strings.Contains(m.View(), "report.pdf") {
		t.Error("view should mention the file name")
	}
}
