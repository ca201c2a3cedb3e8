package auth

import (
	"context"
	"log/slog"

	"todopro/internal/api"
	"todopro/internal/model"
)

// Auditor sends authentication audit events to the remote logging
// collaborator. Delivery is best-effort: failures are logged at debug
// level and never propagate. Audit logging is observability, not a
// correctness dependency.
type Auditor struct {
	gw  Gateway
	log *slog.Logger
}

// NewAuditor creates an auditor over the given gateway.
func NewAuditor(gw Gateway, log *slog.Logger) *Auditor {
	if log == nil {
		log = slog.Default()
	}
	return &Auditor{gw: gw, log: log}
}

// Record sends one audit event and swallows any failure.
func (a *Auditor) Record(ctx context.Context, action model.AuthAction, userID, email string) {
	if a == nil || a.gw == nil {
		return
	}
	payload := map[string]string{
		"user_id": userID,
		"email":   email,
		"action":  string(action),
	}
	if _, err := a.gw.Post(ctx, api.AuthLogEndpoint, payload, api.Options{IncludeToken: false}); err != nil {
		a.log.Debug("audit event not delivered", "action", action, "email", email, "err", err)
		return
	}
	a.log.Debug("audit event delivered", "action", action, "email", email)
}
