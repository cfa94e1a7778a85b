package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/botpost/courier/cli/config"
	"github.com/botpost/courier/cli/render"
	"github.com/botpost/courier/journal"
	"github.com/botpost/courier/types"
)

// HistoryResponse is the response for the history command.
type HistoryResponse struct {
	Receipts []types.Receipt `json:"receipts" yaml:"receipts"`
}

// TableHeader implements render.Tabular.
func (h HistoryResponse) TableHeader() []string {
	return []string{"SENT AT", "MESSAGE", "CHAT", "FILE", "SIZE"}
}

// TableRows implements render.Tabular.
func (h HistoryResponse) TableRows() [][]string {
	rows := make([][]string, 0, len(h.Receipts))
	for _, r := range h.Receipts {
		rows = append(rows, []string{
			r.SentAt.Format("2006-01-02 15:04:05"),
			strconv.FormatInt(r.MessageID, 10),
			r.ChatID,
			r.FileName,
			strconv.FormatInt(r.FileSize, 10),
		})
	}
	return rows
}

// HistoryCommand returns the history command. It only reads the local
// receipt journal and never contacts the remote endpoint.
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List upload receipts from the local journal",
		Flags: append(ReadOnlyFlags(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Show at most the last N receipts (0 = all)",
			},
		),
		Action: historyAction,
	}
}

func historyAction(c *cli.Context) error {
	cfg, err := config.LoadOptional(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), ExitConfig)
	}
	if cfg.Journal == "" {
		return cli.Exit("no journal configured", ExitConfig)
	}

	receipts, err := journal.ReadAll(cfg.Journal)
	if err != nil {
		// A truncated tail still yields the receipts before it; show
		// them and warn rather than hiding the readable history.
		if len(receipts) == 0 {
			return cli.Exit(err.Error(), ExitConfig)
		}
		fmt.Fprintf(os.Stderr, "warning: journal damaged past entry %d: %v\n", len(receipts), err)
	}

	if limit := c.Int("limit"); limit > 0 && len(receipts) > limit {
		receipts = receipts[len(receipts)-limit:]
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitConfig)
	}
	return r.Render(HistoryResponse{Receipts: receipts})
}
