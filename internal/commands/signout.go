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
	Register(&SignoutCmd{})
}

// SignoutCmd implements the signout command.
type SignoutCmd struct{}

func (c *SignoutCmd) Name() string       { return "signout" }
func (c *SignoutCmd) Aliases() []string  { return []string{"logout"} }
func (c *SignoutCmd) Synopsis() string   { return "Sign out and clear the session" }
func (c *SignoutCmd) Usage() string      { return "todopro signout [common flags]" }
func (c *SignoutCmd) NeedsService() bool { return true }

func (c *SignoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SignoutCmd) Run(ctx context.Context, cfg *config.Config, svc *service.Service, args []string, out, errOut io.Writer) int {
	_, signedIn := svc.Auth.Session()

	if err := svc.Auth.SignOut(ctx); err != nil {
		fmt.Fprintf(errOut, "error: failed to clear session: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		if signedIn {
			fmt.Fprintln(out, "ok")
		} else {
			fmt.Fprintln(out, "not signed in")
		}
	}
	return exitcode.Success
}
