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
	Register(&SigninCmd{})
}

// SigninCmd implements the signin command.
type SigninCmd struct{}

func (c *SigninCmd) Name() string       { return "signin" }
func (c *SigninCmd) Aliases() []string  { return []string{"login"} }
func (c *SigninCmd) Synopsis() string   { return "Sign in" }
func (c *SigninCmd) Usage() string      { return "todopro signin <email> <password>" }
func (c *SigninCmd) NeedsService() bool { return true }

func (c *SigninCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SigninCmd) Run(ctx context.Context, cfg *config.Config, svc *service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "error: email and password required")
		return exitcode.UserError
	}

	sess, err := svc.Auth.SignIn(ctx, args[0], args[1])
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "signed in as %s\n", sess.User.Email)
	}
	return exitcode.Success
}
