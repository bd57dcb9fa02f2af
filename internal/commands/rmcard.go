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
	Register(&RmCardCmd{})
}

// RmCardCmd deletes a card.
type RmCardCmd struct{}

func (c *RmCardCmd) Name() string      { return "rmcard" }
func (c *RmCardCmd) Aliases() []string { return []string{"rm"} }
func (c *RmCardCmd) Synopsis() string  { return "Delete a card" }
func (c *RmCardCmd) Usage() string     { return "tboard rmcard [common flags] <board> <ref>" }
func (c *RmCardCmd) NeedsAuth() bool   { return true }

func (c *RmCardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	ref, n, err := ParseCardRef(args[1:])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if len(args) != n+1 {
		fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}

	return runMutation(ctx, cfg, svc, args[0], func(ed board.Editor, d board.Display) ([]service.TaskList, error) {
		l, _, err := ref.Lookup(d)
		if err != nil {
			return nil, err
		}
		cards, err := board.RemoveCard(l.Cards, ref.Card)
		if err != nil {
			return nil, err
		}
		return ed.ReplaceCards(d, ref.List, cards)
	}, out, errOut)
}
