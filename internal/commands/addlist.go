package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tboard/internal/board"
	"tboard/internal/config"
	"tboard/internal/exitcode"
	"tboard/internal/service"
)

func init() {
	Register(&AddListCmd{})
}

// AddListCmd adds a list at the top of a board.
type AddListCmd struct{}

func (c *AddListCmd) Name() string      { return "addlist" }
func (c *AddListCmd) Aliases() []string { return []string{"createlist"} }
func (c *AddListCmd) Synopsis() string  { return "Add a list to a board" }
func (c *AddListCmd) Usage() string     { return "tboard addlist [common flags] <board> <title...>" }
func (c *AddListCmd) NeedsAuth() bool   { return true }

func (c *AddListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	title := strings.TrimSpace(strings.Join(args[1:], " "))
	if err := service.Required("a list name", title); err != nil {
		return reportError(errOut, err)
	}

	return runMutation(ctx, cfg, svc, args[0], func(ed board.Editor, d board.Display) ([]service.TaskList, error) {
		return ed.AppendList(d, title)
	}, out, errOut)
}
