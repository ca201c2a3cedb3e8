package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todopro/internal/config"
	"todopro/internal/exitcode"
	"todopro/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todopro help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc *service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todopro                                          List tasks
  todopro list [common flags]                      List tasks with summary
  todopro add [common flags] [--desc <text>] <title...>
  todopro edit [common flags] [--title <text>] [--desc <text>] <ref>
  todopro done [common flags] <ref>
  todopro undone [common flags] <ref>
  todopro rm [common flags] <ref>
  todopro signup [common flags] [--name <name>] <email> <password>
  todopro signin [common flags] <email> <password>
  todopro signout [common flags]
  todopro whoami [common flags]
  todopro profile [common flags] --name <name>
  todopro help
  todopro version

A <ref> is a task number from the last listing, or a task id.

Tasks are kept on the remote service when it is reachable and in a
local store otherwise; sign in to sync with the remote service.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
