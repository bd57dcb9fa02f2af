package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"tboard/internal/board"
	"tboard/internal/config"
	"tboard/internal/exitcode"
	"tboard/internal/service"
)

func init() {
	Register(&MoveCardCmd{})
}

// MoveCardCmd reorders a card within its list.
type MoveCardCmd struct{}

func (c *MoveCardCmd) Name() string      { return "movecard" }
func (c *MoveCardCmd) Aliases() []string { return []string{"mv"} }
func (c *MoveCardCmd) Synopsis() string  { return "Move a card within its list" }
func (c *MoveCardCmd) Usage() string     { return "tboard movecard [common flags] <board> <ref> <to#>" }
func (c *MoveCardCmd) NeedsAuth() bool   { return true }

func (c *MoveCardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *MoveCardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) < 3 {
		fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	ref, n, err := ParseCardRef(args[1 : len(args)-1])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if len(args) != n+2 {
		fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	last := args[len(args)-1]
	to, err := strconv.Atoi(last)
	if err != nil || to < 1 {
		fmt.Fprintf(errOut, "error: invalid card number: %s\n", last)
		return exitcode.UserError
	}

	return runMutation(ctx, cfg, svc, args[0], func(ed board.Editor, d board.Display) ([]service.TaskList, error) {
		l, _, err := ref.Lookup(d)
		if err != nil {
			return nil, err
		}
		cards, err := board.MoveCard(l.Cards, ref.Card, to-1)
		if err != nil {
			return nil, err
		}
		return ed.ReplaceCards(d, ref.List, cards)
	}, out, errOut)
}
