package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/botpost/courier/cli/config"
	"github.com/botpost/courier/cli/tui"
	"github.com/botpost/courier/iox"
	"github.com/botpost/courier/journal"
	"github.com/botpost/courier/log"
	"github.com/botpost/courier/metrics"
	"github.com/botpost/courier/mirror"
	"github.com/botpost/courier/upload"
)

// Exit codes.
const (
	ExitSuccess   = 0
	ExitConfig    = 1
	ExitLocalFile = 2
	ExitUpload    = 3
)

// SendCommand returns the send command, the only command that talks to
// the remote endpoint.
func SendCommand() *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "Upload a document to the configured endpoint",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "caption",
				Usage: "Caption attached to the document",
			},
			&cli.StringFlag{
				Name:  "chat",
				Usage: "Recipient chat id (overrides the configured default)",
			},
			&cli.BoolFlag{
				Name:  "silent",
				Usage: "Send without notifying the recipient",
			},
			&cli.BoolFlag{
				Name:  "protect",
				Usage: "Forbid forwarding and saving of the sent document",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Show an interactive progress bar",
			},
		},
		Action: sendAction,
	}
}

func sendAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("send requires exactly one file argument", ExitConfig)
	}
	filePath := c.Args().First()

	cfg, err := config.LoadOptional(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), ExitConfig)
	}
	if cfg.Token == "" {
		cfg.Token = os.Getenv("COURIER_TOKEN")
	}

	logger := log.NewLogger()
	if c.Bool("verbose") {
		logger = log.NewVerboseLogger()
	}

	collector := metrics.NewCollector()
	defer func() {
		logger.Sugar().Debugw("send metrics", sendMetricsFields(collector.Snapshot())...)
	}()

	opts := []upload.Option{
		upload.WithLogger(logger),
		upload.WithMetrics(collector),
	}

	if cfg.Journal != "" {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			return cli.Exit(err.Error(), ExitConfig)
		}
		defer iox.DiscardClose(j)
		opts = append(opts, upload.WithReceipts(j))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if mcfg := cfg.MirrorSettings(); mcfg.Enabled() {
		archiver, err := mirror.New(ctx, mcfg)
		if err != nil {
			return cli.Exit(err.Error(), ExitConfig)
		}
		opts = append(opts, upload.WithArchiver(archiver))
	}

	client := upload.New(cfg.UploadConfig(), opts...)
	defer iox.DiscardClose(client)

	req := upload.Request{
		FilePath: filePath,
		Caption:  c.String("caption"),
		ChatID:   c.String("chat"),
		Silent:   c.Bool("silent"),
		Protect:  c.Bool("protect"),
	}

	var confirmation string
	if c.Bool("progress") {
		confirmation, err = sendWithProgress(ctx, client, req)
	} else {
		confirmation, err = client.UploadDocument(ctx, req)
	}
	if err != nil {
		return cli.Exit(err.Error(), exitCodeFor(err))
	}

	fmt.Fprintln(c.App.Writer, confirmation)
	return nil
}

// sendWithProgress runs the upload in a goroutine while the progress TUI
// owns the terminal. The TUI quits when the upload finishes; leaving it
// early, by quitting mid-upload or failing to open a terminal, cancels
// the in-flight send. The upload outcome is always collected from the
// goroutine before returning, so a quit never reads a half-written
// result or reports success for an unconfirmed send.
func sendWithProgress(ctx context.Context, client *upload.Client, req upload.Request) (string, error) {
	p := tui.NewUploadProgress(filepath.Base(req.FilePath))
	req.Progress = p.Report

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		confirmation string
		uploadErr    error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		confirmation, uploadErr = client.UploadDocument(ctx, req)
		p.Finish(uploadErr)
	}()

	runErr := p.Run()
	cancel()
	<-done

	switch {
	case uploadErr == nil:
		return confirmation, nil
	case errors.Is(uploadErr, context.Canceled) && runErr != nil:
		return "", fmt.Errorf("upload cancelled: progress display: %w", runErr)
	case errors.Is(uploadErr, context.Canceled):
		return "", fmt.Errorf("upload cancelled: %w", uploadErr)
	default:
		return "", uploadErr
	}
}

// sendMetricsFields flattens the collector snapshot into logging
// key-value pairs.
func sendMetricsFields(snap metrics.Snapshot) []any {
	return []any{
		"uploads_started", snap.UploadsStarted,
		"uploads_succeeded", snap.UploadsSucceeded,
		"uploads_failed", snap.UploadsFailed,
		"send_success", snap.SendSuccess,
		"send_failure", snap.SendFailure,
		"bytes_sent", snap.BytesSent,
		"journal_write_failure", snap.JournalWriteFailure,
		"mirror_write_failure", snap.MirrorWriteFailure,
	}
}

// exitCodeFor maps the upload error taxonomy onto exit codes.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, upload.ErrConfig):
		return ExitConfig
	case errors.Is(err, upload.ErrAccessDenied), errors.Is(err, upload.ErrNotFound):
		return ExitLocalFile
	default:
		return ExitUpload
	}
}
