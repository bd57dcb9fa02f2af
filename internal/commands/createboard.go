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
	Register(&CreateBoardCmd{})
}

// CreateBoardCmd creates a board with the signed-in user as its only member.
type CreateBoardCmd struct{}

func (c *CreateBoardCmd) Name() string      { return "createboard" }
func (c *CreateBoardCmd) Aliases() []string { return []string{"newboard"} }
func (c *CreateBoardCmd) Synopsis() string  { return "Create a board" }
func (c *CreateBoardCmd) Usage() string     { return "tboard createboard [common flags] <name...>" }
func (c *CreateBoardCmd) NeedsAuth() bool   { return true }

func (c *CreateBoardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CreateBoardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))
	if err := service.Required("a board name", name); err != nil {
		return reportError(errOut, err)
	}

	b, err := svc.CreateBoard(ctx, name)
	if err != nil {
		return reportError(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %s\n", b.ID)
	}
	return exitcode.Success
}
