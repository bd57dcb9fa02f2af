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
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	name     string
	password string
	auth     service.Authenticator
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account and sign in" }
func (c *RegisterCmd) Usage() string {
	return "tboard register [common flags] --name <name> [--password <p>] <email>"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	c.name, c.password = "", ""
	fs.StringVar(&c.name, "name", "", "Display name")
	fs.StringVar(&c.password, "password", "", "Account password (default $"+PasswordEnv+")")
	fs.StringVar(&c.password, "p", "", "Account password (shorthand)")
}

// SetAuthenticator implements AuthenticatorUser.
func (c *RegisterCmd) SetAuthenticator(a service.Authenticator) {
	c.auth = a
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	email := strings.TrimSpace(strings.Join(args, " "))
	if c.auth == nil {
		fmt.Fprintln(errOut, "error: no authenticator configured")
		return exitcode.AuthError
	}
	creds, err := c.auth.SignUp(ctx, strings.TrimSpace(c.name), email, passwordOrEnv(c.password))
	if err != nil {
		return reportError(errOut, err)
	}
	return saveSession(cfg, creds, out, errOut)
}
