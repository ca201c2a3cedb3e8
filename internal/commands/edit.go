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
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	title       string
	description string
	descSet     bool
}

// SetFields sets the new title and description (for testing).
func (c *EditCmd) SetFields(title, desc string) {
	c.title = title
	c.description = desc
	c.descSet = true
}

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return nil }
func (c *EditCmd) Synopsis() string   { return "Edit a task's title and description" }
func (c *EditCmd) Usage() string      { return "todopro edit [--title <text>] [--desc <text>] <ref>" }
func (c *EditCmd) NeedsService() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.Func("desc", "", func(v string) error {
		c.description = v
		c.descSet = true
		return nil
	})
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc *service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task reference required")
		return exitcode.UserError
	}
	if c.title == "" && !c.descSet {
		fmt.Fprintln(errOut, "error: nothing to change (use --title or --desc)")
		return exitcode.UserError
	}

	task, err := resolveTask(ctx, svc, args[0])
	if err != nil {
		return fail(errOut, err)
	}

	title := task.Title
	if c.title != "" {
		title = c.title
	}
	description := task.Description
	if c.descSet {
		description = c.description
	}

	if _, err := svc.Tasks.Update(ctx, task.ID, title, description); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
