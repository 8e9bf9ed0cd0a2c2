package services

import (
	"context"
	"log/slog"
	"time"

	"advisorycms/internal/monitoring"
)

const notifyTimeout = 30 * time.Second

// notifier runs email sends fire-and-forget: the send happens on its own
// goroutine after the triggering state change has been committed, and a
// failure is logged and counted but never returned to the caller.
type notifier struct {
	logger *slog.Logger
}

func (n *notifier) dispatch(template string, send func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			n.logger.Error("email dispatch failed", "template", template, "err", err)
			monitoring.EmailDispatchFailed(template)
		}
	}()
}
