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
	Register(&SignupCmd{})
}

// SignupCmd implements the signup command.
type SignupCmd struct {
	name string
}

// SetName sets the display name (for testing).
func (c *SignupCmd) SetName(name string) {
	c.name = name
}

func (c *SignupCmd) Name() string       { return "signup" }
func (c *SignupCmd) Aliases() []string  { return nil }
func (c *SignupCmd) Synopsis() string   { return "Create an account and sign in" }
func (c *SignupCmd) Usage() string      { return "todopro signup [--name <name>] <email> <password>" }
func (c *SignupCmd) NeedsService() bool { return true }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, svc *service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "error: email and password required")
		return exitcode.UserError
	}

	sess, err := svc.Auth.SignUp(ctx, args[0], args[1], c.name)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "signed up as %s\n", sess.User.Email)
	}
	return exitcode.Success
}
