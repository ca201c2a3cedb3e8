package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"todopro/internal/cli"
	"todopro/internal/commands"
	"todopro/internal/config"
	"todopro/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, cfg *config.Config) (*service.Service, error) {
		return service.New(ctx, cfg)
	}

	d := cli.NewDispatcher(commands.DefaultRegistry, factory)
	code := d.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
