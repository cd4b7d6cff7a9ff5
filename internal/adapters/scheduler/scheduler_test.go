package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"auction-engine/internal/adapters/store"
	"auction-engine/internal/domain/account"
	"auction-engine/internal/domain/auction"
	"auction-engine/internal/domain/bid"
	"auction-engine/internal/ports/outbound"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type capturedEvent struct {
	SubscriberID int
	Event        outbound.Event
}

// captureSink records every notification for assertions
type captureSink struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (c *captureSink) Notify(ctx context.Context, subscriberID int, event outbound.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, capturedEvent{SubscriberID: subscriberID, Event: event})
	return nil
}

func (c *captureSink) ofType(eventType outbound.EventType) []capturedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	var matched []capturedEvent
	for _, e := range c.events {
		if e.Event.Type == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

type fixture struct {
	auctions  outbound.AuctionRepository
	bids      outbound.BidRepository
	accounts  outbound.AccountRepository
	sink      *captureSink
	scheduler *AuctionScheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	factory, err := store.NewRepositoryFactory(store.RepositoryFactoryParams{
		Fs:     afero.NewMemMapFs(),
		Dir:    "data",
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)

	f := &fixture{
		auctions: factory.GetAuctionRepository(),
		bids:     factory.GetBidRepository(),
		accounts: factory.GetAccountRepository(),
		sink:     &captureSink{},
	}
	f.scheduler = NewAuctionScheduler(AuctionSchedulerParams{
		AuctionRepo: f.auctions,
		BidRepo:     f.bids,
		AccountRepo: f.accounts,
		Sink:        f.sink,
		Logger:      zerolog.Nop(),
	})
	t.Cleanup(f.scheduler.Stop)

	return f
}

func (f *fixture) seedAccount(t *testing.T, name string) *account.Account {
	t.Helper()

	acct, err := f.accounts.Create(context.Background(), func(id int) *account.Account {
		return &account.Account{ID: id, Name: name}
	})
	require.NoError(t, err)
	return acct
}

func (f *fixture) seedAuction(t *testing.T, ownerID int, startTime time.Time, maxTimeout int, subscriberIDs ...int) *auction.Auction {
	t.Helper()

	if subscriberIDs == nil {
		subscriberIDs = []int{}
	}
	a, err := f.auctions.Create(context.Background(), func(id int) *auction.Auction {
		return &auction.Auction{
			ID:            id,
			OwnerID:       ownerID,
			Name:          "lot",
			MinBid:        10,
			StartTime:     startTime,
			MaxTimeout:    maxTimeout,
			SubscriberIDs: subscriberIDs,
		}
	})
	require.NoError(t, err)
	return a
}

// placeBid mimics the ledger: append the bid, then move the pointer
func (f *fixture) placeBid(t *testing.T, auctionID, bidderID int, value float64) *bid.Bid {
	t.Helper()
	ctx := context.Background()

	b, err := f.bids.Create(ctx, func(id int) *bid.Bid {
		return &bid.Bid{
			ID:        id,
			AuctionID: auctionID,
			BidderID:  bidderID,
			Value:     value,
			PlacedAt:  time.Now().Truncate(time.Second),
		}
	})
	require.NoError(t, err)

	a, err := f.auctions.GetByID(ctx, auctionID)
	require.NoError(t, err)
	a.LastBidID = &b.ID
	require.NoError(t, f.auctions.Update(ctx, a))
	return b
}

func (f *fixture) markClosed(t *testing.T, auctionID int) {
	t.Helper()

	a, err := f.auctions.GetByID(context.Background(), auctionID)
	require.NoError(t, err)
	a.Open = false
	a.Closed = true
	require.NoError(t, f.auctions.Update(context.Background(), a))
}

func (f *fixture) isOpen(t *testing.T, auctionID int) bool {
	t.Helper()

	a, err := f.auctions.GetByID(context.Background(), auctionID)
	require.NoError(t, err)
	return a.Open
}

func TestScheduler_OpensAtStartTime(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	follower := f.seedAccount(t, "follower")
	a := f.seedAuction(t, 99, time.Now().Add(1*time.Second), 30, follower.ID)

	f.scheduler.ScheduleAuction(a.ID)

	require.False(t, f.isOpen(t, a.ID))
	require.Eventually(t, func() bool { return f.isOpen(t, a.ID) }, 5*time.Second, 50*time.Millisecond)

	opened := f.sink.ofType(outbound.EventTypeAuctionOpened)
	require.Len(t, opened, 1)
	require.Equal(t, follower.ID, opened[0].SubscriberID)
	require.Equal(t, a.ID, opened[0].Event.AuctionID)
	require.Equal(t, "lot", opened[0].Event.Data["name"])
}

func TestScheduler_ClosesWithoutBids(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	follower := f.seedAccount(t, "follower")
	a := f.seedAuction(t, 99, time.Now(), 2, follower.ID)

	f.scheduler.ScheduleAuction(a.ID)

	require.Eventually(t, func() bool { return f.isOpen(t, a.ID) }, 3*time.Second, 50*time.Millisecond)
	require.Eventually(t, func() bool { return !f.isOpen(t, a.ID) }, 6*time.Second, 50*time.Millisecond)

	ended := f.sink.ofType(outbound.EventTypeAuctionEnded)
	require.Len(t, ended, 1)
	require.Equal(t, true, ended[0].Event.Data["no_bids"])

	stored, err := f.auctions.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.True(t, stored.Closed)
}

func TestScheduler_BidExtendsDeadline(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	winner := f.seedAccount(t, "winner")
	a := f.seedAuction(t, 99, time.Now(), 4, winner.ID)

	f.scheduler.ScheduleAuction(a.ID)
	require.Eventually(t, func() bool { return f.isOpen(t, a.ID) }, 3*time.Second, 50*time.Millisecond)

	// A bid two seconds in defers the close to bid time + timeout
	time.Sleep(2 * time.Second)
	b := f.placeBid(t, a.ID, winner.ID, 42)

	// Midway through the extended window the auction must still be open
	time.Sleep(time.Until(b.PlacedAt.Add(2 * time.Second)))
	require.True(t, f.isOpen(t, a.ID), "auction must stay open until the bid's own timeout elapses")

	require.Eventually(t, func() bool { return !f.isOpen(t, a.ID) }, 8*time.Second, 50*time.Millisecond)
	require.True(t, time.Since(b.PlacedAt) >= 4*time.Second, "close must not predate the extended deadline")

	ended := f.sink.ofType(outbound.EventTypeAuctionEnded)
	require.Len(t, ended, 1)
	require.Equal(t, 42.0, ended[0].Event.Data["winning_value"])
	require.Equal(t, "winner", ended[0].Event.Data["winner_name"])
}

func TestScheduler_AbandonsDeletedAuction(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	follower := f.seedAccount(t, "follower")
	a := f.seedAuction(t, 99, time.Now(), 1, follower.ID)

	f.scheduler.ScheduleAuction(a.ID)
	require.Eventually(t, func() bool { return f.isOpen(t, a.ID) }, 3*time.Second, 50*time.Millisecond)

	require.NoError(t, f.auctions.Delete(context.Background(), a.ID))

	// The task must die silently: no close event ever shows up
	time.Sleep(2500 * time.Millisecond)
	require.Empty(t, f.sink.ofType(outbound.EventTypeAuctionEnded))
}

func TestScheduler_ResumeReArmsUnfinishedAuctions(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	follower := f.seedAccount(t, "follower")
	ctx := context.Background()

	pending := f.seedAuction(t, 99, time.Now().Add(1*time.Second), 30, follower.ID)
	finished := f.seedAuction(t, 99, time.Now().Add(-1*time.Hour), 1, follower.ID)
	f.markClosed(t, finished.ID)

	require.NoError(t, f.scheduler.Resume(ctx))

	require.Eventually(t, func() bool { return f.isOpen(t, pending.ID) }, 5*time.Second, 50*time.Millisecond)

	// The finished auction must never wake up again
	time.Sleep(500 * time.Millisecond)
	require.False(t, f.isOpen(t, finished.ID))
	require.Empty(t, f.sink.ofType(outbound.EventTypeAuctionEnded))
}

func TestScheduler_ResumeOpensAuctionWhoseStartPassed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	follower := f.seedAccount(t, "follower")

	// Pending at shutdown, start time elapsed while the process was down
	a := f.seedAuction(t, 99, time.Now().Add(-2*time.Second), 30, follower.ID)

	require.NoError(t, f.scheduler.Resume(context.Background()))

	require.Eventually(t, func() bool { return f.isOpen(t, a.ID) }, 3*time.Second, 50*time.Millisecond)

	opened := f.sink.ofType(outbound.EventTypeAuctionOpened)
	require.Len(t, opened, 1)
	require.Equal(t, a.ID, opened[0].Event.AuctionID)
}

func TestScheduler_ResumeDoesNotReopenOpenAuction(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	follower := f.seedAccount(t, "follower")
	ctx := context.Background()

	// Auction caught mid-window by a restart: already open, no bids yet
	a := f.seedAuction(t, 99, time.Now().Add(-10*time.Second), 2, follower.ID)
	stored, err := f.auctions.GetByID(ctx, a.ID)
	require.NoError(t, err)
	stored.Open = true
	require.NoError(t, f.auctions.Update(ctx, stored))

	require.NoError(t, f.scheduler.Resume(ctx))

	// The countdown restarts, but the opened event is not re-broadcast
	require.Eventually(t, func() bool { return !f.isOpen(t, a.ID) }, 6*time.Second, 50*time.Millisecond)
	require.Empty(t, f.sink.ofType(outbound.EventTypeAuctionOpened))
	require.Len(t, f.sink.ofType(outbound.EventTypeAuctionEnded), 1)
}
