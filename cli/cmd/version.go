package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/botpost/courier/cli/render"
	"github.com/botpost/courier/types"
)

// VersionResponse is the response for the version command.
type VersionResponse struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
}

// TableHeader implements render.Tabular.
func (v VersionResponse) TableHeader() []string {
	return []string{"VERSION", "COMMIT"}
}

// TableRows implements render.Tabular.
func (v VersionResponse) TableRows() [][]string {
	return [][]string{{v.Version, v.Commit}}
}

// VersionCommand returns the version command. It must not touch the
// network or the journal.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Flags:  ReadOnlyFlags(),
		Action: versionAction(commit),
	}
}

func versionAction(commit string) cli.ActionFunc {
	return func(c *cli.Context) error {
		r, err := render.NewRenderer(c)
		if err != nil {
			return err
		}
		return r.Render(VersionResponse{
			Version: types.Version,
			Commit:  commit,
		})
	}
}
