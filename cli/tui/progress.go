package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// progressMsg carries the cumulative body bytes handed to the connection
// and the total framed body length, which is known only once the upload
// client has built its framing plan.
type progressMsg struct {
	sent  int64
	total int64
}

// doneMsg signals upload completion. A nil err means success.
type doneMsg struct {
	err error
}

// UploadProgress drives a progress bar for one in-flight upload.
// Report and Finish are safe to call from the upload goroutine while
// Run blocks on the terminal.
type UploadProgress struct {
	program *tea.Program
}

// NewUploadProgress creates the progress TUI for one file.
func NewUploadProgress(fileName string) *UploadProgress {
	m := uploadModel{
		fileName: fileName,
		bar:      progress.New(progress.WithDefaultGradient()),
	}
	return &UploadProgress{program: tea.NewProgram(m)}
}

// Run blocks until the upload finishes or the user quits.
func (p *UploadProgress) Run() error {
	_, err := p.program.Run()
	return err
}

// Report feeds the transport's progress callback into the TUI.
func (p *UploadProgress) Report(sent, total int64) {
	p.program.Send(progressMsg{sent: sent, total: total})
}

// Finish tells the TUI the upload completed.
func (p *UploadProgress) Finish(err error) {
	p.program.Send(doneMsg{err: err})
}

// uploadModel is the Bubble Tea model for upload progress.
type uploadModel struct {
	fileName string
	total    int64
	sent     int64
	bar      progress.Model
	err      error
	done     bool
}

// Init implements tea.Model.
func (m uploadModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m uploadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 8
		return m, nil

	case progressMsg:
		m.sent = msg.sent
		m.total = msg.total
		return m, nil

	case doneMsg:
		m.done = true
		m.err = msg.err
		if m.err == nil {
			m.sent = m.total
		}
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m uploadModel) View() string {
	title := TitleStyle.Render("Uploading " + m.fileName)

	var percent float64
	if m.total > 0 {
		percent = float64(m.sent) / float64(m.total)
	} else if m.done {
		percent = 1
	}

	counter := CounterStyle.Render(fmt.Sprintf("%d / %d bytes", m.sent, m.total))

	status := ""
	if m.done {
		if m.err != nil {
			status = "\n" + ErrorStyle.Render("failed: "+m.err.Error())
		} else {
			status = "\n" + SuccessStyle.Render("done")
		}
	}

	return title + "\n" + m.bar.ViewAs(percent) + "\n" + counter + status + "\n"
}
