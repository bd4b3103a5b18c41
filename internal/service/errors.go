package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Skotchmaster/hospital_management/internal/apperr"
	"github.com/Skotchmaster/hospital_management/internal/events"
	"github.com/Skotchmaster/hospital_management/internal/logging"
	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/storage"
)

// storageError maps storage sentinels onto client-facing errors.
func storageError(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return apperr.NotFound(notFound).Wrap(err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return apperr.Conflict("resource already exists").Wrap(err)
	default:
		return apperr.Internal(err)
	}
}

func isNotFound(err error) bool { return errors.Is(err, storage.ErrNotFound) }

func requireUser(u *models.User) error {
	if u == nil || u.ID == "" {
		return apperr.Unauthorized("unauthorized access")
	}
	return nil
}

func isDoctor(u *models.User) bool { return u != nil && u.Role == models.RoleDoctor }

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// nonBlank returns nil for a missing or blank value.
func nonBlank(s *string) *string {
	if s == nil || blank(*s) {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// publish is best-effort: failures are logged and swallowed.
func publish(ctx context.Context, p events.Publisher, l *slog.Logger, ev events.Event) {
	if p == nil {
		return
	}
	ev.At = time.Now().UTC()
	if err := p.Publish(context.WithoutCancel(ctx), ev); err != nil {
		l.Warn("event_publish_failed", "event", string(ev.Type), "error", err)
	}
}

func logger(ctx context.Context, svc string) *slog.Logger {
	return logging.FromContext(ctx).With("svc", svc)
}
