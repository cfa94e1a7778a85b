// Package cmd provides CLI commands for the courier binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags.
var (
	// ConfigFlag points at the YAML config file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to courier.yaml",
		Value:   "courier.yaml",
	}

	// VerboseFlag enables debug logging to stderr.
	VerboseFlag = &cli.BoolFlag{
		Name:  "verbose",
		Usage: "Enable debug logging",
	}

	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}
)

// GlobalFlags returns the app-level flags shared by all commands.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		ConfigFlag,
		VerboseFlag,
	}
}

// ReadOnlyFlags returns the shared flags for read-only commands.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
	}
}
