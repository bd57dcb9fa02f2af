package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"tboard/internal/board"
	"tboard/internal/config"
	"tboard/internal/exitcode"
	"tboard/internal/members"
	"tboard/internal/service"
)

func init() {
	Register(&AssignCmd{})
}

// AssignCmd toggles a board member's assignment to a card.
type AssignCmd struct{}

func (c *AssignCmd) Name() string      { return "assign" }
func (c *AssignCmd) Aliases() []string { return []string{"unassign"} }
func (c *AssignCmd) Synopsis() string  { return "Toggle a member on a card" }
func (c *AssignCmd) Usage() string     { return "tboard assign [common flags] <board> <ref> <email>" }
func (c *AssignCmd) NeedsAuth() bool   { return true }

func (c *AssignCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AssignCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
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
	email := strings.TrimSpace(args[len(args)-1])

	sess, err := openSession(ctx, svc, args[0])
	if err != nil {
		return reportError(errOut, err)
	}
	defer sess.Close()

	_, candidates, err := memberNames(ctx, svc, sess.Board())
	if err != nil {
		return reportError(errOut, err)
	}
	var target service.User
	for _, u := range candidates {
		if strings.EqualFold(u.Email, email) {
			target = u
			break
		}
	}
	if target.ID == "" {
		fmt.Fprintf(errOut, "error: %s is not a member of this board (invite them first)\n", email)
		return exitcode.UserError
	}

	var taken members.Action
	err = sess.Apply(ctx, func(ed board.Editor, d board.Display) ([]service.TaskList, error) {
		l, card, err := ref.Lookup(d)
		if err != nil {
			return nil, err
		}
		picker := members.NewPicker(candidates, card.AssignedTo)
		pos, _ := picker.Find(target.ID)

		var cards []service.Card
		var cardErr error
		picker.SetOnClick(func(_ int, u service.User, action members.Action) {
			cards, cardErr = board.UpdateCard(l.Cards, ref.Card, func(cd service.Card) service.Card {
				cd.AssignedTo = members.Apply(cd.AssignedTo, u.ID, action)
				return cd
			})
		})
		if taken, err = picker.Click(pos); err != nil {
			return nil, err
		}
		if cardErr != nil {
			return nil, cardErr
		}
		return ed.ReplaceCards(d, ref.List, cards)
	})
	if err != nil {
		return reportError(errOut, err)
	}

	log.WithFields(log.Fields{"card": ref.String(), "user": target.ID, "action": taken}).Debug("member toggled")
	if !cfg.Quiet {
		verb := "assigned"
		if taken == members.UnSelect {
			verb = "unassigned"
		}
		fmt.Fprintf(out, "ok %s %s\n", verb, target.Email)
	}
	return exitcode.Success
}
