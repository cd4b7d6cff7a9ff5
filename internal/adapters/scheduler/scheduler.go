package scheduler

import (
	"context"
	"errors"
	"time"

	"auction-engine/internal/domain/auction"
	"auction-engine/internal/domain/shared"
	"auction-engine/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// AuctionScheduler drives each auction through its lifecycle:
// Pending (before start time) -> Open (accepting bids) -> Closed.
//
// One goroutine runs per live auction, started when the auction is created
// and finished when it closes or its record disappears. The Open state is a
// poll loop: note the last-bid pointer, sleep until the deadline that
// pointer implies, reload, and close only if no new bid moved the pointer
// during the wait. Every accepted bid therefore restarts the countdown from
// its own timestamp.
type AuctionScheduler struct {
	auctionRepo outbound.AuctionRepository
	bidRepo     outbound.BidRepository
	accountRepo outbound.AccountRepository
	sink        outbound.NotificationSink
	clock       Clock
	logger      zerolog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

type AuctionSchedulerParams struct {
	AuctionRepo outbound.AuctionRepository
	BidRepo     outbound.BidRepository
	AccountRepo outbound.AccountRepository
	Sink        outbound.NotificationSink
	Clock       Clock
	Logger      zerolog.Logger
}

func NewAuctionScheduler(params AuctionSchedulerParams) *AuctionScheduler {
	ctx, cancel := context.WithCancel(context.Background())

	clock := params.Clock
	if clock == nil {
		clock = NewWallClock()
	}

	return &AuctionScheduler{
		auctionRepo: params.AuctionRepo,
		bidRepo:     params.BidRepo,
		accountRepo: params.AccountRepo,
		sink:        params.Sink,
		clock:       clock,
		logger:      params.Logger.With().Str("component", "auction_scheduler").Logger(),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// ScheduleAuction starts the lifecycle task for an auction
func (s *AuctionScheduler) ScheduleAuction(auctionID int) {
	go s.run(auctionID)
}

// Resume re-arms lifecycle tasks for every auction that has not closed yet.
// Called once at startup so auctions survive a process restart.
func (s *AuctionScheduler) Resume(ctx context.Context) error {
	auctions, err := s.auctionRepo.List(ctx)
	if err != nil {
		return err
	}

	resumed := 0
	for _, a := range auctions {
		if a.Closed {
			continue
		}
		s.ScheduleAuction(a.ID)
		resumed++
	}

	if resumed > 0 {
		s.logger.Info().Int("count", resumed).Msg("Resumed auction schedules")
	}

	return nil
}

// Stop prevents further timer waits from completing. Running tasks are
// abandoned, not joined; they observe the cancelled context at their next
// suspension point.
func (s *AuctionScheduler) Stop() {
	s.logger.Info().Msg("Stopping auction scheduler")
	s.cancel()
}

// run executes the full lifecycle of one auction
func (s *AuctionScheduler) run(auctionID int) {
	logger := s.logger.With().Int("auction_id", auctionID).Logger()

	a, ok := s.reload(auctionID, logger)
	if !ok || a.Closed {
		return
	}

	// Pending -> Open: wait out the time to the start, clamped to zero
	// when the start time has already passed.
	if !s.wait(a.TimeToStart(s.clock.Now())) {
		return
	}

	a, ok = s.reload(auctionID, logger)
	if !ok || a.Closed {
		return
	}

	// A resumed auction may already be open; re-opening it would
	// re-broadcast the opened event after every restart.
	if !a.Open {
		a.Open = true
		if err := s.auctionRepo.Update(s.ctx, a); err != nil {
			logger.Error().Err(err).Msg("Failed to open auction")
			return
		}
		logger.Info().Msg("Auction opened")
		s.broadcast(a.SubscriberIDs, openedEvent(a))
	}
	openedAt := s.clock.Now()

	// Open -> Closed: poll until a full timeout passes with no new bid
	for {
		a, ok = s.reload(auctionID, logger)
		if !ok {
			return
		}
		observed := a.LastBidID

		deadline := openedAt.Add(a.MaxTimeoutDuration())
		if observed != nil {
			lastBid, err := s.bidRepo.GetByID(s.ctx, *observed)
			if err != nil {
				logger.Warn().Err(err).Int("bid_id", *observed).Msg("Last bid missing, falling back to open deadline")
			} else {
				deadline = lastBid.Deadline(a.MaxTimeoutDuration())
			}
		}

		remaining := deadline.Sub(s.clock.Now())
		if remaining < 0 {
			remaining = 0
		}
		if !s.wait(remaining) {
			return
		}

		a, ok = s.reload(auctionID, logger)
		if !ok {
			return
		}
		if sameBidPointer(observed, a.LastBidID) {
			// No bid arrived during the wait
			break
		}
	}

	a.Open = false
	a.Closed = true
	if err := s.auctionRepo.Update(s.ctx, a); err != nil {
		logger.Error().Err(err).Msg("Failed to close auction")
		return
	}

	s.broadcast(a.SubscriberIDs, s.endedEvent(a, logger))
	logger.Info().Msg("Auction closed")
}

// reload fetches the auction, terminating the task silently when the
// record is gone (deleted concurrently).
func (s *AuctionScheduler) reload(auctionID int, logger zerolog.Logger) (*auction.Auction, bool) {
	a, err := s.auctionRepo.GetByID(s.ctx, auctionID)
	if err != nil {
		if errors.Is(err, shared.ErrAuctionNotFound) {
			logger.Debug().Msg("Auction gone, abandoning schedule")
		} else {
			logger.Error().Err(err).Msg("Failed to reload auction")
		}
		return nil, false
	}
	return a, true
}

// wait suspends for the duration; returns false if the scheduler stopped
func (s *AuctionScheduler) wait(d time.Duration) bool {
	if d <= 0 {
		return s.ctx.Err() == nil
	}

	select {
	case <-s.clock.After(d):
		return true
	case <-s.ctx.Done():
		return false
	}
}

// broadcast delivers the event to every subscriber, absorbing sink errors
func (s *AuctionScheduler) broadcast(subscriberIDs []int, event outbound.Event) {
	for _, subscriberID := range subscriberIDs {
		if err := s.sink.Notify(s.ctx, subscriberID, event); err != nil {
			s.logger.Warn().Err(err).
				Int("subscriber_id", subscriberID).
				Str("event_type", string(event.Type)).
				Msg("Failed to notify subscriber")
		}
	}
}

// openedEvent carries the full auction description as payload
func openedEvent(a *auction.Auction) outbound.Event {
	return outbound.Event{
		Type:      outbound.EventTypeAuctionOpened,
		AuctionID: a.ID,
		Data: map[string]interface{}{
			"auction_id":  a.ID,
			"name":        a.Name,
			"description": a.Description,
			"min_bid":     a.MinBid,
			"max_timeout": a.MaxTimeout,
			"owner_id":    a.OwnerID,
			"start_time":  a.StartTime.Format(time.RFC3339),
		},
	}
}

// endedEvent resolves the winner by maximum value across all bids. A close
// with zero bids is still a close; its payload says so instead of naming a
// winner.
func (s *AuctionScheduler) endedEvent(a *auction.Auction, logger zerolog.Logger) outbound.Event {
	data := map[string]interface{}{
		"auction_id": a.ID,
	}

	winner, err := s.bidRepo.GetHighestBid(s.ctx, a.ID)
	switch {
	case errors.Is(err, shared.ErrNoBidsFound):
		data["no_bids"] = true
	case err != nil:
		logger.Error().Err(err).Msg("Failed to resolve winning bid")
		data["no_bids"] = true
	default:
		data["winning_value"] = winner.Value
		winnerName := ""
		if acct, err := s.accountRepo.GetByID(s.ctx, winner.BidderID); err == nil {
			winnerName = acct.Name
		} else {
			logger.Warn().Err(err).Int("bidder_id", winner.BidderID).Msg("Failed to load winner account")
		}
		data["winner_name"] = winnerName
	}

	return outbound.Event{
		Type:      outbound.EventTypeAuctionEnded,
		AuctionID: a.ID,
		Data:      data,
	}
}

func sameBidPointer(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
