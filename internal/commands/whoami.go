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
	Register(&WhoamiCmd{})
}

// WhoamiCmd implements the whoami command.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string       { return "whoami" }
func (c *WhoamiCmd) Aliases() []string  { return nil }
func (c *WhoamiCmd) Synopsis() string   { return "Show the current session" }
func (c *WhoamiCmd) Usage() string      { return "todopro whoami [common flags]" }
func (c *WhoamiCmd) NeedsService() bool { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, svc *service.Service, args []string, out, errOut io.Writer) int {
	sess, ok := svc.Auth.Session()
	if !ok {
		fmt.Fprintln(out, "not signed in")
		return exitcode.Success
	}
	output.FormatSession(out, sess)
	return exitcode.Success
}
