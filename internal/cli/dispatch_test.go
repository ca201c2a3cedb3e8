package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"todopro/internal/cli"
	"todopro/internal/commands"
	"todopro/internal/config"
	"todopro/internal/exitcode"
	"todopro/internal/service"
	"todopro/internal/testutil"
)

// testFactory creates a service factory that returns the given test stack.
func testFactory(env *testutil.Env) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (*service.Service, error) {
		return env.Service, nil
	}
}

func newDispatcher(t *testing.T) (*cli.Dispatcher, *testutil.Env) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	env := testutil.NewEnv(t)
	return cli.NewDispatcher(commands.DefaultRegistry, testFactory(env)), env
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	dispatcher, env := newDispatcher(t)

	if _, err := env.Tasks.Create(context.Background(), "Buy milk", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if !strings.Contains(stdout.String(), "Buy milk") {
		t.Errorf("expected task listing, got %q", stdout.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if !bytes.Contains(stdout.Bytes(), []byte("Usage:")) {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if stdout.String() != "todopro 0.1.0\n" {
		t.Errorf("expected 'todopro 0.1.0\\n', got %q", stdout.String())
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help", "--unknown"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"add", "--desc"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -desc\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_QuietFlagPassedToCommand(t *testing.T) {
	dispatcher, _ := newDispatcher(t)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--quiet"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout.String() != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout.String())
	}
}
