package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tboard/internal/config"
	"tboard/internal/exitcode"
	"tboard/internal/service"
)

func init() {
	Register(&InviteCmd{})
}

// InviteCmd adds a registered user to a board by email.
type InviteCmd struct{}

func (c *InviteCmd) Name() string      { return "invite" }
func (c *InviteCmd) Aliases() []string { return nil }
func (c *InviteCmd) Synopsis() string  { return "Add a member to a board" }
func (c *InviteCmd) Usage() string     { return "tboard invite [common flags] <board> <email>" }
func (c *InviteCmd) NeedsAuth() bool   { return true }

func (c *InviteCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *InviteCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	email := strings.TrimSpace(args[1])
	if err := service.Required("an email", email); err != nil {
		return reportError(errOut, err)
	}

	sess, err := openSession(ctx, svc, args[0])
	if err != nil {
		return reportError(errOut, err)
	}
	defer sess.Close()

	u, err := svc.FindUserByEmail(ctx, email)
	if err != nil {
		return reportError(errOut, err)
	}
	if err := sess.Invite(ctx, u.ID); err != nil {
		return reportError(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
