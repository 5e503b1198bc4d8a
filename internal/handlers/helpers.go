package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/quickkart/internal/events"
	"github.com/Skotchmaster/quickkart/internal/logging"
	"github.com/Skotchmaster/quickkart/internal/service"
)

const publishTimeout = 5 * time.Second

// httpError turns a service error into the echo error returned to the client.
// Only the client-facing part of a service.Error reaches the body; internal
// failures are logged and reported without detail.
func httpError(l *slog.Logger, op string, err error) error {
	var status int
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	default:
		l.Error(op, "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	l.Warn(op, "status", status, "error", err)

	msg := http.StatusText(status)
	var se *service.Error
	if errors.As(err, &se) {
		msg = se.Msg
	}
	return echo.NewHTTPError(status, msg)
}

// publish sends the event without letting broker trouble fail the request.
func publish(ctx context.Context, p events.Publisher, topic, key string, ev events.Event) {
	if p == nil {
		return
	}
	ev.OccurredAt = time.Now().UTC()

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.PublishEvent(pubCtx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", topic, "type", ev.Type, "error", err)
	}
}
