package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/domain"
)

// ErrQueueFull is returned by Log when deliveries back up faster than the
// receiver accepts them.
var ErrQueueFull = errors.New("webhook queue full")

const (
	defaultQueueSize   = 256
	defaultMaxAttempts = 5
	maxRetryDelay      = time.Minute
)

type sendFunc func(ctx context.Context, payload Payload, body []byte) error

// Dispatcher queues attendance events and delivers them in order from a
// single goroutine, retrying failed deliveries with exponential backoff.
// It implements audit.Logger.
type Dispatcher struct {
	send        sendFunc
	queue       chan job
	logger      *slog.Logger
	maxAttempts int
	baseDelay   time.Duration
	stopCh      chan struct{}
}

func NewDispatcher(sender *Sender, logger *slog.Logger, maxAttempts int) *Dispatcher {
	return newDispatcher(sender.Send, logger, maxAttempts, time.Second)
}

func newDispatcher(send sendFunc, logger *slog.Logger, maxAttempts int, baseDelay time.Duration) *Dispatcher {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Dispatcher{
		send:        send,
		queue:       make(chan job, defaultQueueSize),
		logger:      logger.With("component", "webhook"),
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		stopCh:      make(chan struct{}),
	}
}

// Log enqueues the event for delivery. It never blocks on the network.
func (d *Dispatcher) Log(_ context.Context, event domain.Event) error {
	payload := newPayload(event)
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	select {
	case d.queue <- job{payload: payload, body: body}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("webhook dispatcher started")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("webhook dispatcher stopped", "pending", len(d.queue))
			return
		case <-d.stopCh:
			d.logger.Info("webhook dispatcher stopped", "pending", len(d.queue))
			return
		case j := <-d.queue:
			d.deliver(ctx, j)
		}
	}
}

func (d *Dispatcher) Stop() {
	close(d.stopCh)
}

func (d *Dispatcher) deliver(ctx context.Context, j job) {
	for {
		j.attempts++
		err := d.send(ctx, j.payload, j.body)
		if err == nil {
			d.logger.Debug("webhook delivered", "delivery_id", j.payload.ID, "attempts", j.attempts)
			return
		}

		var statusErr *StatusError
		permanent := errors.As(err, &statusErr) && statusErr.StatusCode >= 400 && statusErr.StatusCode < 500 &&
			statusErr.StatusCode != 429

		if permanent || j.attempts >= d.maxAttempts {
			d.logger.Error("webhook delivery failed",
				"delivery_id", j.payload.ID,
				"type", j.payload.Type,
				"attempts", j.attempts,
				"error", err,
			)
			return
		}

		delay := d.retryDelay(j.attempts)
		d.logger.Warn("webhook delivery scheduled for retry",
			"delivery_id", j.payload.ID,
			"attempts", j.attempts,
			"next_retry_in", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return
		case <-d.stopCh:
			return
		case <-time.After(delay):
		}
	}
}

func (d *Dispatcher) retryDelay(attempts int) time.Duration {
	delay := d.baseDelay * time.Duration(1<<(attempts-1))
	if delay > maxRetryDelay || delay <= 0 {
		delay = maxRetryDelay
	}
	return delay
}
