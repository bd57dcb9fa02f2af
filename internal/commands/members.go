package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tboard/internal/config"
	"tboard/internal/exitcode"
	"tboard/internal/members"
	"tboard/internal/output"
	"tboard/internal/service"
)

func init() {
	Register(&MembersCmd{})
}

// MembersCmd lists a board's members. With a card ref, the card's assignees
// are starred.
type MembersCmd struct{}

func (c *MembersCmd) Name() string      { return "members" }
func (c *MembersCmd) Aliases() []string { return nil }
func (c *MembersCmd) Synopsis() string  { return "List board members" }
func (c *MembersCmd) Usage() string     { return "tboard members [common flags] <board> [<ref>]" }
func (c *MembersCmd) NeedsAuth() bool   { return true }

func (c *MembersCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *MembersCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}

	var selected []string
	var ref *CardRef
	if len(args) > 1 {
		r, n, err := ParseCardRef(args[1:])
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		if len(args) != n+1 {
			fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
			return exitcode.UserError
		}
		ref = &r
	}

	sess, err := openSession(ctx, svc, args[0])
	if err != nil {
		return reportError(errOut, err)
	}
	defer sess.Close()

	if ref != nil {
		_, card, err := ref.Lookup(sess.Display())
		if err != nil {
			return reportError(errOut, err)
		}
		selected = card.AssignedTo
	}

	_, users, err := memberNames(ctx, svc, sess.Board())
	if err != nil {
		return reportError(errOut, err)
	}
	for _, u := range members.NewPicker(users, selected).Users() {
		output.FormatMember(out, u)
	}
	return exitcode.Success
}
