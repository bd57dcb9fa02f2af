package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"tboard/internal/cli"
	"tboard/internal/commands"
	"tboard/internal/config"
	"tboard/internal/exitcode"
	"tboard/internal/service"
	"tboard/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc service.Service) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

func failingFactory(err error) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, err
	}
}

func testAuthFactory(auth service.Authenticator) cli.AuthenticatorFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Authenticator, error) {
		return auth, nil
	}
}

// closingService records whether the dispatcher closed it.
type closingService struct {
	*testutil.FakeService
	closed bool
}

func (c *closingService) Close() error {
	c.closed = true
	return nil
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()), nil)

	_, stderr, code := run(t, dispatcher, "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()), nil)

	_, stderr, code := run(t, dispatcher, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil, nil)

	stdout, stderr, code := run(t, dispatcher, "help", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil, nil)

	stdout, stderr, code := run(t, dispatcher, "version", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "tboard 0.1.0\n" {
		t.Errorf("expected 'tboard 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil, nil)

	_, stderr, code := run(t, dispatcher, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil, nil)

	_, stderr, code := run(t, dispatcher, "editcard", "--title")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -title\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_DefaultCommandListsBoards(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddBoard(service.Board{ID: "b1", Name: "Groceries"})
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc), nil)

	stdout, _, code := run(t, dispatcher)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "Groceries  [b1]\n" {
		t.Errorf("expected %q, got %q", "Groceries  [b1]\n", stdout)
	}
}

func TestDispatcher_AliasAndCommonFlags(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddBoard(service.Board{ID: "b1", Name: "Groceries", TaskLists: []service.TaskList{{Title: "Todo"}}})
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc), nil)

	stdout, stderr, code := run(t, dispatcher, "add", "--quiet", "--config", t.TempDir(), "Groceries", "1", "Milk")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "" {
		t.Errorf("expected no output in quiet mode, got %q", stdout)
	}
	b, _ := svc.Board("b1")
	if len(b.TaskLists[0].Cards) != 1 || b.TaskLists[0].Cards[0].Title != "Milk" {
		t.Errorf("card not added: %+v", b.TaskLists[0])
	}
}

func TestDispatcher_ClosesService(t *testing.T) {
	svc := &closingService{FakeService: testutil.NewFakeService()}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc), nil)

	_, _, code := run(t, dispatcher, "boards", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !svc.closed {
		t.Error("expected service to be closed")
	}
}

func TestDispatcher_FactoryErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		stderr string
	}{
		{
			name:   "not logged in",
			err:    fmt.Errorf("%w: not logged in (run: tboard login)", service.ErrAuth),
			code:   exitcode.AuthError,
			stderr: "error: auth error: not logged in (run: tboard login)\n",
		},
		{
			name:   "not configured",
			err:    fmt.Errorf("%w: mongo.uri is not set", config.ErrNotConfigured),
			code:   exitcode.AuthError,
			stderr: "error: backend not configured: mongo.uri is not set (edit config.yaml or set the environment)\n",
		},
		{
			name:   "unreachable",
			err:    fmt.Errorf("%w: dial tcp: refused", service.ErrUnavailable),
			code:   exitcode.BackendError,
			stderr: "error: backend error: backend unavailable: dial tcp: refused\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := cli.NewDispatcher(commands.DefaultRegistry, failingFactory(tt.err), nil)

			stdout, stderr, code := run(t, dispatcher, "show", "--config", t.TempDir(), "b1")

			if code != tt.code {
				t.Errorf("expected exit code %d, got %d", tt.code, code)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
			if stderr != tt.stderr {
				t.Errorf("expected %q, got %q", tt.stderr, stderr)
			}
		})
	}
}

func TestDispatcher_NoAuthCommandSkipsFactory(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, failingFactory(errors.New("should not be called")), nil)

	_, _, code := run(t, dispatcher, "logout", "--quiet", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
}

func TestDispatcher_LoginUsesAuthenticator(t *testing.T) {
	t.Setenv(commands.PasswordEnv, "")
	dir := t.TempDir()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil, testAuthFactory(testutil.NewFakeAuthenticator()))

	stdout, stderr, code := run(t, dispatcher, "login", "--config", dir, "--password", "secret", "test@example.com")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected %q, got %q", "ok\n", stdout)
	}
	cfg := &config.Config{Dir: dir}
	if !cfg.HasSession() {
		t.Error("expected session to be saved")
	}
}

func TestDispatcher_LoginAuthenticatorError(t *testing.T) {
	authFactory := func(ctx context.Context, cfg *config.Config) (service.Authenticator, error) {
		return nil, fmt.Errorf("%w: firestore.api_key is not set", config.ErrNotConfigured)
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil, authFactory)

	_, stderr, code := run(t, dispatcher, "login", "--config", t.TempDir(), "-p", "secret", "test@example.com")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "firestore.api_key is not set") {
		t.Errorf("expected config error, got %q", stderr)
	}
}
