// Package main provides the courier CLI entrypoint.
//
// Usage:
//
//	courier send <file> [--caption ...] [--chat ...] [--silent] [--protect]
//	courier history [--limit N]
//	courier version
//
// Exit codes:
//   - 0: success
//   - 1: configuration or usage error
//   - 2: local file error (missing, not regular, sandbox denial)
//   - 3: upload failure (transport, protocol, or remote rejection)
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/botpost/courier/cli/cmd"
	"github.com/botpost/courier/types"
)

// commit is overridden at build time via -ldflags.
var commit = "unknown"

func main() {
	app := &cli.App{
		Name:    "courier",
		Usage:   "Send documents to a bot-style upload endpoint",
		Version: types.Version,
		Flags:   cmd.GlobalFlags(),
		Commands: []*cli.Command{
			cmd.SendCommand(),
			cmd.HistoryCommand(),
			cmd.VersionCommand(commit),
		},
		ExitErrHandler: exitErrHandler,
	}

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit; this branch is only
		// reached if it declined to.
		os.Exit(cmd.ExitUpload)
	}
}

// exitErrHandler handles errors from the CLI, respecting cli.ExitCoder.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// cli.Exit("", N).Error() returns "exit status N"; skip those.
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(cmd.ExitConfig)
}
