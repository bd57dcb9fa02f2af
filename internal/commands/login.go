package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"tboard/internal/config"
	"tboard/internal/credentials"
	"tboard/internal/exitcode"
	"tboard/internal/service"
)

// PasswordEnv is read when no --password flag is given.
const PasswordEnv = "TBOARD_PASSWORD"

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	password string
	auth     service.Authenticator
	now      func() time.Time
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in with email and password" }
func (c *LoginCmd) Usage() string {
	return "tboard login [common flags] [--password <p>] <email>"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	c.password = ""
	fs.StringVar(&c.password, "password", "", "Account password (default $"+PasswordEnv+")")
	fs.StringVar(&c.password, "p", "", "Account password (shorthand)")
}

// SetAuthenticator implements AuthenticatorUser.
func (c *LoginCmd) SetAuthenticator(a service.Authenticator) {
	c.auth = a
}

// SetNow overrides the clock (for testing).
func (c *LoginCmd) SetNow(now func() time.Time) {
	c.now = now
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	email := strings.TrimSpace(strings.Join(args, " "))
	if err := service.Required("an email", email); err != nil {
		return reportError(errOut, err)
	}

	if prev, ok := c.currentSession(cfg); ok && strings.EqualFold(prev.Email, email) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	if c.auth == nil {
		fmt.Fprintln(errOut, "error: no authenticator configured")
		return exitcode.AuthError
	}
	creds, err := c.auth.SignIn(ctx, email, passwordOrEnv(c.password))
	if err != nil {
		return reportError(errOut, err)
	}
	return saveSession(cfg, creds, out, errOut)
}

func (c *LoginCmd) currentSession(cfg *config.Config) (service.Credentials, bool) {
	if !cfg.HasSession() {
		return service.Credentials{}, false
	}
	creds, err := credentials.Load(cfg.SessionPath())
	if err != nil {
		log.WithError(err).Debug("ignoring stored session")
		return service.Credentials{}, false
	}
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	if credentials.Expired(creds, now()) {
		return service.Credentials{}, false
	}
	return creds, true
}

func passwordOrEnv(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(PasswordEnv)
}

// saveSession stores creds as the signed-in session.
func saveSession(cfg *config.Config, creds service.Credentials, out, errOut io.Writer) int {
	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := credentials.Save(cfg.SessionPath(), creds); err != nil {
		fmt.Fprintf(errOut, "error: failed to save session: %v\n", err)
		return exitcode.AuthError
	}
	log.WithField("user", creds.UserID).Debug("session saved")

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
