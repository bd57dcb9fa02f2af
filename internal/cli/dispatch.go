// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"tboard/internal/commands"
	"tboard/internal/config"
	"tboard/internal/exitcode"
	"tboard/internal/service"
)

// DefaultCommand runs when no command is given.
const DefaultCommand = "boards"

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// AuthenticatorFactory creates the Authenticator handed to login and register.
type AuthenticatorFactory func(ctx context.Context, cfg *config.Config) (service.Authenticator, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry    *commands.Registry
	factory     ServiceFactory
	authFactory AuthenticatorFactory
}

// NewDispatcher creates a new dispatcher with the given registry and factories.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory, authFactory AuthenticatorFactory) *Dispatcher {
	return &Dispatcher{
		registry:    registry,
		factory:     factory,
		authFactory: authFactory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return d.dispatch(ctx, DefaultCommand, nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A positional arg starting with - should have been parsed as a flag
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	setupLogging(errOut, debug)

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	log.WithFields(log.Fields{"command": cmd.Name(), "backend": cfg.Backend, "dir": cfg.Dir}).Debug("dispatching")

	if user, ok := cmd.(commands.AuthenticatorUser); ok && d.authFactory != nil {
		auth, err := d.authFactory(ctx, cfg)
		if err != nil {
			return reportSetupError(errOut, err)
		}
		defer closeQuietly(auth)
		user.SetAuthenticator(auth)
	}

	var svc service.Service
	if cmd.NeedsAuth() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no backend configured")
			return exitcode.AuthError
		}
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			return reportSetupError(errOut, err)
		}
		defer closeQuietly(svc)
	}

	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	if strings.HasPrefix(errStr, "flag needs an argument:") {
		return "flag needs an argument: " + strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
	}
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimSpace(strings.TrimPrefix(errStr, "flag provided but not defined:"))
	}
	return errStr
}

// reportSetupError reports a failure to open the backend.
func reportSetupError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, service.ErrAuth):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, config.ErrNotConfigured):
		fmt.Fprintf(errOut, "error: %v (edit config.yaml or set the environment)\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// setupLogging sends logrus output to w at warn level, or debug with --debug.
func setupLogging(w io.Writer, debug bool) {
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: !debug})
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

func closeQuietly(v any) {
	c, ok := v.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		log.WithError(err).Debug("close failed")
	}
}
