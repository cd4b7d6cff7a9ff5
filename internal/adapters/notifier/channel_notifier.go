package notifier

import (
	"context"
	"time"

	"auction-engine/internal/ports/outbound"

	"github.com/alitto/pond"
	"github.com/rs/zerolog"
)

// ChannelNotifier delivers events to the live sessions of a subscriber
// through the session registry. Dispatch happens on a bounded worker pool
// and channel sends never block: a full session channel drops the event.
type ChannelNotifier struct {
	registry *SessionRegistry
	pool     *pond.WorkerPool
	logger   zerolog.Logger
}

type ChannelNotifierParams struct {
	Registry    *SessionRegistry
	MaxWorkers  int
	MaxCapacity int
	Logger      zerolog.Logger
}

// NewChannelNotifier creates a notifier backed by the given session registry
func NewChannelNotifier(params ChannelNotifierParams) *ChannelNotifier {
	workers := params.MaxWorkers
	if workers <= 0 {
		workers = 10
	}
	capacity := params.MaxCapacity
	if capacity <= 0 {
		capacity = 100
	}

	pool := pond.New(
		workers,
		capacity,
		pond.Strategy(pond.Balanced()),
	)

	return &ChannelNotifier{
		registry: params.Registry,
		pool:     pool,
		logger:   params.Logger.With().Str("component", "channel_notifier").Logger(),
	}
}

// Notify queues the event for every live session of the subscriber.
// Accounts without a session simply miss the event.
func (n *ChannelNotifier) Notify(ctx context.Context, subscriberID int, event outbound.Event) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	sessions := n.registry.SessionsFor(subscriberID)
	if len(sessions) == 0 {
		return nil
	}

	for _, session := range sessions {
		session := session
		submitted := n.pool.TrySubmit(func() {
			select {
			case <-session.done:
			case session.events <- event:
			default:
				n.logger.Warn().
					Str("session_id", session.id).
					Int("account_id", session.accountID).
					Str("event_type", string(event.Type)).
					Msg("Session channel full, dropping event")
			}
		})
		if !submitted {
			n.logger.Warn().
				Str("session_id", session.id).
				Int("account_id", session.accountID).
				Msg("Dispatch pool saturated, dropping event")
		}
	}

	return nil
}

// Close stops the dispatch pool, waiting for queued deliveries
func (n *ChannelNotifier) Close() {
	n.pool.StopAndWait()
}
