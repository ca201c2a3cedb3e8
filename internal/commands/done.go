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
	Register(&DoneCmd{})
	Register(&UndoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return nil }
func (c *DoneCmd) Synopsis() string   { return "Mark a task completed" }
func (c *DoneCmd) Usage() string      { return "todopro done <ref>" }
func (c *DoneCmd) NeedsService() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc *service.Service, args []string, out, errOut io.Writer) int {
	return runToggle(ctx, cfg, svc, args, true, out, errOut)
}

// UndoneCmd implements the undone command.
type UndoneCmd struct{}

func (c *UndoneCmd) Name() string       { return "undone" }
func (c *UndoneCmd) Aliases() []string  { return nil }
func (c *UndoneCmd) Synopsis() string   { return "Mark a task not completed" }
func (c *UndoneCmd) Usage() string      { return "todopro undone <ref>" }
func (c *UndoneCmd) NeedsService() bool { return true }

func (c *UndoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UndoneCmd) Run(ctx context.Context, cfg *config.Config, svc *service.Service, args []string, out, errOut io.Writer) int {
	return runToggle(ctx, cfg, svc, args, false, out, errOut)
}

// runToggle is the shared implementation for done and undone.
func runToggle(ctx context.Context, cfg *config.Config, svc *service.Service, args []string, completed bool, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task reference required")
		return exitcode.UserError
	}

	task, err := resolveTask(ctx, svc, args[0])
	if err != nil {
		return fail(errOut, err)
	}

	if _, err := svc.Tasks.ToggleComplete(ctx, task.ID, completed); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
