package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tboard/internal/board"
	"tboard/internal/config"
	"tboard/internal/exitcode"
	"tboard/internal/service"
)

func init() {
	Register(&RmListCmd{})
}

// RmListCmd implements the rmlist command.
type RmListCmd struct {
	force bool
}

func (c *RmListCmd) Name() string      { return "rmlist" }
func (c *RmListCmd) Aliases() []string { return []string{"deletelist"} }
func (c *RmListCmd) Synopsis() string  { return "Delete a list and its cards" }
func (c *RmListCmd) Usage() string {
	return "tboard rmlist [common flags] [--force] <board> <list#>"
}
func (c *RmListCmd) NeedsAuth() bool { return true }

func (c *RmListCmd) RegisterFlags(fs *flag.FlagSet) {
	c.force = false
	fs.BoolVar(&c.force, "force", false, "Delete even if the list has cards")
}

func (c *RmListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	pos, err := parseListNum(args[1])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	return runMutation(ctx, cfg, svc, args[0], func(ed board.Editor, d board.Display) ([]service.TaskList, error) {
		l, err := d.List(pos)
		if err != nil {
			return nil, err
		}
		if len(l.Cards) > 0 && !c.force {
			return nil, &listNotEmptyError{title: l.Title, cards: len(l.Cards)}
		}
		return ed.RemoveList(d, pos)
	}, out, errOut)
}

type listNotEmptyError struct {
	title string
	cards int
}

func (e *listNotEmptyError) Error() string {
	return fmt.Sprintf("list %q has %d cards (use --force)", e.title, e.cards)
}
