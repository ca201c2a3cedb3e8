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
	Register(&ProfileCmd{})
}

// ProfileCmd implements the profile command.
type ProfileCmd struct {
	name string
}

// SetName sets the new display name (for testing).
func (c *ProfileCmd) SetName(name string) {
	c.name = name
}

func (c *ProfileCmd) Name() string       { return "profile" }
func (c *ProfileCmd) Aliases() []string  { return nil }
func (c *ProfileCmd) Synopsis() string   { return "Update the profile name" }
func (c *ProfileCmd) Usage() string      { return "todopro profile --name <name>" }
func (c *ProfileCmd) NeedsService() bool { return true }

func (c *ProfileCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
}

func (c *ProfileCmd) Run(ctx context.Context, cfg *config.Config, svc *service.Service, args []string, out, errOut io.Writer) int {
	if c.name == "" {
		fmt.Fprintln(errOut, "error: --name required")
		return exitcode.UserError
	}

	user, err := svc.Auth.UpdateProfile(ctx, c.name)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "profile updated: %s\n", user.Name)
	}
	return exitcode.Success
}
