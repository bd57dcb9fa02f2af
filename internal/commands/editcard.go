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
	Register(&EditCardCmd{})
}

// optionalString is a flag that records whether it was set, so an explicit
// empty value can be told apart from an absent flag.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(v string) error {
	o.value, o.set = v, true
	return nil
}

// EditCardCmd changes a card's title or label colour.
type EditCardCmd struct {
	title optionalString
	label optionalString
}

func (c *EditCardCmd) Name() string      { return "editcard" }
func (c *EditCardCmd) Aliases() []string { return []string{"edit"} }
func (c *EditCardCmd) Synopsis() string  { return "Change a card's title or label" }
func (c *EditCardCmd) Usage() string {
	return "tboard editcard [common flags] [--title <t>] [--label <color>] <board> <ref>"
}
func (c *EditCardCmd) NeedsAuth() bool { return true }

func (c *EditCardCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.label = optionalString{}, optionalString{}
	fs.Var(&c.title, "title", "New card title")
	fs.Var(&c.label, "label", "Label colour from the palette, or empty to clear")
}

func (c *EditCardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !c.title.set && !c.label.set {
		fmt.Fprintln(errOut, "error: nothing to change (use --title or --label)")
		return exitcode.UserError
	}
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

	title := strings.TrimSpace(c.title.value)
	if c.title.set {
		if err := service.Required("a card name", title); err != nil {
			return reportError(errOut, err)
		}
	}
	label, ok := board.NormalizeLabelColor(c.label.value)
	if c.label.set && !ok {
		fmt.Fprintf(errOut, "error: unknown label colour %q (choose from: %s)\n",
			c.label.value, strings.Join(board.LabelColors, " "))
		return exitcode.UserError
	}

	return runMutation(ctx, cfg, svc, args[0], func(ed board.Editor, d board.Display) ([]service.TaskList, error) {
		l, _, err := ref.Lookup(d)
		if err != nil {
			return nil, err
		}
		cards, err := board.UpdateCard(l.Cards, ref.Card, func(card service.Card) service.Card {
			if c.title.set {
				card.Title = title
			}
			if c.label.set {
				card.LabelColor = label
			}
			return card
		})
		if err != nil {
			return nil, err
		}
		return ed.ReplaceCards(d, ref.List, cards)
	}, out, errOut)
}
