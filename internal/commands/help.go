package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tboard/internal/config"
	"tboard/internal/exitcode"
	"tboard/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tboard help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tboard                                             List your boards
  tboard boards [common flags]
  tboard createboard [common flags] <name...>
  tboard show [common flags] <board>
  tboard addlist [common flags] <board> <title...>
  tboard renamelist [common flags] <board> <list#> <title...>
  tboard rmlist [common flags] <board> <list#>
  tboard addcard [common flags] <board> <list#> <title...>
  tboard editcard [common flags] [--title <t>] [--label <color>] <board> <ref>
  tboard rmcard [common flags] <board> <ref>
  tboard movecard [common flags] <board> <ref> <to#>
  tboard assign [common flags] <board> <ref> <email>
  tboard members [common flags] <board> [<ref>]
  tboard invite [common flags] <board> <email>
  tboard login [common flags] [--password <p>] <email>
  tboard register [common flags] --name <name> [--password <p>] <email>
  tboard logout [common flags]
  tboard help
  tboard version

A board is its id or its name. A card ref is <list#>.<card#> or <list#> <card#>.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
