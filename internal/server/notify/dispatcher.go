package notify

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/trophy/internal/logging"
	"github.com/dmitrijs2005/trophy/internal/server/models"
)

const defaultSendTimeout = 10 * time.Second

// Dispatcher fans a notification out to the sinks registered for the
// requested channels, each in its own goroutine.
type Dispatcher struct {
	mu      sync.RWMutex
	sinks   map[string]Sink
	logger  logging.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		sinks:   make(map[string]Sink),
		logger:  logger.With("module", "notify"),
		timeout: defaultSendTimeout,
	}
}

// Register routes channel to sink, replacing any previous sink.
func (d *Dispatcher) Register(channel string, sink Sink) {
	d.mu.Lock()
	d.sinks[channel] = sink
	d.mu.Unlock()
}

// Has reports whether a sink is registered for channel.
func (d *Dispatcher) Has(channel string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.sinks[channel]
	return ok
}

// Dispatch starts delivery and returns immediately. Deliveries outlive ctx's
// cancellation but keep its values; each is bounded by the send timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, n models.Notification, channels []string) {
	base := context.WithoutCancel(ctx)

	for _, ch := range channels {
		d.mu.RLock()
		sink, ok := d.sinks[ch]
		d.mu.RUnlock()
		if !ok {
			d.logger.Debug(ctx, "no sink for channel", "channel", ch, "notification_id", n.ID)
			continue
		}

		d.wg.Add(1)
		go func(ch string, sink Sink) {
			defer d.wg.Done()

			sendCtx, cancel := context.WithTimeout(base, d.timeout)
			defer cancel()

			if err := sink.Send(sendCtx, n); err != nil {
				d.logger.Error(sendCtx, "notification delivery failed",
					"channel", ch, "notification_id", n.ID, "error", err.Error())
			}
		}(ch, sink)
	}
}

// Wait blocks until every started delivery has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
