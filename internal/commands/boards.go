package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tboard/internal/config"
	"tboard/internal/exitcode"
	"tboard/internal/output"
	"tboard/internal/service"
)

func init() {
	Register(&BoardsCmd{})
}

// BoardsCmd lists the boards the signed-in user is a member of.
type BoardsCmd struct{}

func (c *BoardsCmd) Name() string      { return "boards" }
func (c *BoardsCmd) Aliases() []string { return []string{"ls"} }
func (c *BoardsCmd) Synopsis() string  { return "List your boards" }
func (c *BoardsCmd) Usage() string     { return "tboard boards [common flags]" }
func (c *BoardsCmd) NeedsAuth() bool   { return true }

func (c *BoardsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *BoardsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	boards, err := svc.ListBoards(ctx)
	if err != nil {
		return reportError(errOut, err)
	}
	if len(boards) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no boards (create one with: tboard createboard <name>)")
		}
		return exitcode.Success
	}
	for _, b := range boards {
		output.FormatBoardName(out, b)
	}
	return exitcode.Success
}
