package service

import (
	"context"
	"log/slog"
	"os"

	"todopro/internal/api"
	"todopro/internal/auth"
	"todopro/internal/config"
	"todopro/internal/store"
	"todopro/internal/tasks"
)

// New wires the production service: gateway, local stores, auth and
// task layers. The caller must Close the result.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	log := newLogger(cfg)

	if err := cfg.EnsureDir(); err != nil {
		return nil, err
	}

	sessions := store.NewSessionStore(cfg.SessionPath())
	gw := api.New(cfg.BaseURL, cfg.Timeout, sessions, sessions, log)

	db, err := store.Open(cfg.DataDir(), log)
	if err != nil {
		return nil, err
	}

	accounts := store.NewAccountStore(db)
	auditor := auth.NewAuditor(gw, log)
	authSvc := auth.New(gw, accounts, sessions, auditor, log)
	taskSvc := tasks.New(gw, store.NewTaskStore(db), authSvc, log)

	svc := &Service{Auth: authSvc, Tasks: taskSvc}
	svc.AddCloser(db.Close)
	return svc, nil
}

// newLogger builds the process logger. Debug mode lowers the level and
// keeps everything on stderr so stdout stays parseable.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
