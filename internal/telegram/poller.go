package telegram

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	defaultPollTimeout = 25 // seconds, long-poll hold on getUpdates
	pollRetryDelay     = 3 * time.Second
)

// Handler processes one update. Implementations must not panic; the poller
// treats a returned error as handled-and-logged, not fatal.
type Handler interface {
	HandleUpdate(ctx context.Context, update Update)
}

// Poller runs the long-poll loop. Updates are handled one at a time in
// arrival order; the confirmed offset only advances after the handler
// returns.
type Poller struct {
	client      *Client
	logger      *zap.Logger
	pollTimeout int
}

func NewPoller(client *Client, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{client: client, logger: logger, pollTimeout: defaultPollTimeout}
}

// Run polls until ctx is cancelled. Transport errors are logged and the
// loop backs off briefly instead of exiting.
func (p *Poller) Run(ctx context.Context, handler Handler) error {
	var offset int64

	p.logger.Info("starting long polling")
	for {
		if err := ctx.Err(); err != nil {
			p.logger.Info("polling stopped")
			return nil
		}

		updates, err := p.client.GetUpdates(ctx, offset, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("polling stopped")
				return nil
			}
			p.logger.Warn("getUpdates failed, retrying", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			handler.HandleUpdate(ctx, update)
			offset = update.UpdateID + 1
		}
	}
}
