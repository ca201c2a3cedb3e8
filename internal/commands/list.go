package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todopro/internal/config"
	"todopro/internal/exitcode"
	"todopro/internal/output"
	"todopro/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command. It is also the default command
// when todopro is invoked without arguments.
type ListCmd struct{}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "todopro list [common flags]" }
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc *service.Service, args []string, out, errOut io.Writer) int {
	tasks, err := svc.Tasks.List(ctx)
	if err != nil {
		return fail(errOut, err)
	}

	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks")
		}
		return exitcode.Success
	}

	for i, t := range tasks {
		output.FormatTask(out, i+1, t)
	}
	if !cfg.Quiet {
		output.FormatSummary(out, tasks)
	}
	return exitcode.Success
}
