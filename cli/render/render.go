// Package render provides centralized output rendering for the courier CLI.
//
// Format selection rules:
//   - If output is a TTY, default to table
//   - If output is not a TTY, default to json
//   - --format flag always overrides defaults
//   - Invalid formats are errors
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// Format represents an output format.
type Format string

// Supported formats.
const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a format string, returning an error for invalid formats.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "table":
		return FormatTable, nil
	case "yaml":
		return FormatYAML, nil
	case "":
		return "", nil // Let caller decide default
	default:
		return "", fmt.Errorf("invalid format: %q (must be json, table, or yaml)", s)
	}
}

// Tabular is implemented by view types that can render as a table.
type Tabular interface {
	TableHeader() []string
	TableRows() [][]string
}

// Renderer handles output formatting.
type Renderer struct {
	format Format
	out    io.Writer
}

// NewRenderer builds a Renderer from CLI flags, defaulting the format
// by whether stdout is a TTY.
func NewRenderer(c *cli.Context) (*Renderer, error) {
	format, err := ParseFormat(c.String("format"))
	if err != nil {
		return nil, err
	}
	if format == "" {
		if isTerminal(os.Stdout) {
			format = FormatTable
		} else {
			format = FormatJSON
		}
	}
	return &Renderer{format: format, out: os.Stdout}, nil
}

// isTerminal reports whether f is attached to a character device.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// NewRendererTo builds a Renderer with an explicit format and writer.
// Used by tests.
func NewRendererTo(format Format, out io.Writer) *Renderer {
	return &Renderer{format: format, out: out}
}

// Render writes v in the selected format. Table format requires v to
// implement Tabular.
func (r *Renderer) Render(v any) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		defer func() { _ = enc.Close() }()
		return enc.Encode(v)
	case FormatTable:
		tab, ok := v.(Tabular)
		if !ok {
			return fmt.Errorf("table format not supported for %T", v)
		}
		return r.renderTable(tab)
	default:
		return fmt.Errorf("unknown format %q", r.format)
	}
}

func (r *Renderer) renderTable(tab Tabular) error {
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, strings.Join(tab.TableHeader(), "\t")); err != nil {
		return err
	}
	for _, row := range tab.TableRows() {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return w.Flush()
}
