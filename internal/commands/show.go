package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tboard/internal/board"
	"tboard/internal/config"
	"tboard/internal/exitcode"
	"tboard/internal/output"
	"tboard/internal/service"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd prints a board's lists and cards in display order.
type ShowCmd struct{}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return []string{"open"} }
func (c *ShowCmd) Synopsis() string  { return "Show a board's lists and cards" }
func (c *ShowCmd) Usage() string     { return "tboard show [common flags] <board>" }
func (c *ShowCmd) NeedsAuth() bool   { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}

	b, err := resolveBoard(ctx, svc, args[0])
	if err != nil {
		return reportError(errOut, err)
	}
	b, err = svc.FetchBoard(ctx, b.ID)
	if err != nil {
		return reportError(errOut, err)
	}
	names, _, err := memberNames(ctx, svc, b)
	if err != nil {
		return reportError(errOut, err)
	}

	output.FormatBoardHeader(out, b)
	for i, s := range board.PrepareForDisplay(b.TaskLists).Slots() {
		output.FormatSlot(out, i+1, s, names)
	}
	return exitcode.Success
}
