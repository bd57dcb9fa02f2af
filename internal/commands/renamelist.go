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
	Register(&RenameListCmd{})
}

// RenameListCmd renames a list, keeping its creator and cards.
type RenameListCmd struct{}

func (c *RenameListCmd) Name() string      { return "renamelist" }
func (c *RenameListCmd) Aliases() []string { return []string{"editlist"} }
func (c *RenameListCmd) Synopsis() string  { return "Rename a list" }
func (c *RenameListCmd) Usage() string {
	return "tboard renamelist [common flags] <board> <list#> <title...>"
}
func (c *RenameListCmd) NeedsAuth() bool { return true }

func (c *RenameListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RenameListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintf(errOut, "error: usage: %s\n", c.Usage())
		return exitcode.UserError
	}
	pos, err := parseListNum(args[1])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	title := strings.TrimSpace(strings.Join(args[2:], " "))
	if err := service.Required("a list name", title); err != nil {
		return reportError(errOut, err)
	}

	return runMutation(ctx, cfg, svc, args[0], func(ed board.Editor, d board.Display) ([]service.TaskList, error) {
		template, err := d.List(pos)
		if err != nil {
			return nil, err
		}
		return ed.ReplaceList(d, pos, title, template)
	}, out, errOut)
}
