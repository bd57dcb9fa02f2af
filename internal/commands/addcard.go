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
	Register(&AddCardCmd{})
}

// AddCardCmd appends a card, assigned to the signed-in user, to a list.
type AddCardCmd struct{}

func (c *AddCardCmd) Name() string      { return "addcard" }
func (c *AddCardCmd) Aliases() []string { return []string{"add"} }
func (c *AddCardCmd) Synopsis() string  { return "Add a card to a list" }
func (c *AddCardCmd) Usage() string {
	return "tboard addcard [common flags] <board> <list#> <title...>"
}
func (c *AddCardCmd) NeedsAuth() bool { return true }

func (c *AddCardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	pos, err := parseListNum(args[1])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	title := strings.TrimSpace(strings.Join(args[2:], " "))
	if err := service.Required("a card name", title); err != nil {
		return reportError(errOut, err)
	}

	return runMutation(ctx, cfg, svc, args[0], func(ed board.Editor, d board.Display) ([]service.TaskList, error) {
		return ed.AppendCard(d, pos, title)
	}, out, errOut)
}
