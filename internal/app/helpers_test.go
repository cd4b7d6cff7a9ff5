package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"auction-engine/internal/adapters/store"
	"auction-engine/internal/domain/account"
	"auction-engine/internal/ports/inbound"
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

func (c *captureSink) all() []capturedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]capturedEvent(nil), c.events...)
}

type services struct {
	auctions *AuctionService
	bids     *BidService
	accounts *AccountService

	auctionRepo outbound.AuctionRepository
	bidRepo     outbound.BidRepository
	accountRepo outbound.AccountRepository
	sink        *captureSink
}

// newServices wires the app services against in-memory containers and a
// capturing sink, with no scheduler attached.
func newServices(t *testing.T) *services {
	t.Helper()

	factory, err := store.NewRepositoryFactory(store.RepositoryFactoryParams{
		Fs:     afero.NewMemMapFs(),
		Dir:    "data",
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)

	s := &services{
		auctionRepo: factory.GetAuctionRepository(),
		bidRepo:     factory.GetBidRepository(),
		accountRepo: factory.GetAccountRepository(),
		sink:        &captureSink{},
	}
	s.auctions = NewAuctionService(AuctionServiceParams{
		AuctionRepo: s.auctionRepo,
		BidRepo:     s.bidRepo,
		AccountRepo: s.accountRepo,
		Logger:      zerolog.Nop(),
	})
	s.bids = NewBidService(BidServiceParams{
		BidRepo:     s.bidRepo,
		AuctionRepo: s.auctionRepo,
		AccountRepo: s.accountRepo,
		Sink:        s.sink,
		Logger:      zerolog.Nop(),
	})
	s.accounts = NewAccountService(AccountServiceParams{
		AccountRepo: s.accountRepo,
		AuctionRepo: s.auctionRepo,
		BidRepo:     s.bidRepo,
		Logger:      zerolog.Nop(),
	})

	return s
}

func (s *services) newAccount(t *testing.T, name string) *account.Account {
	t.Helper()

	acct, err := s.accounts.CreateAccount(context.Background(), inbound.CreateAccountRequest{Name: name})
	require.NoError(t, err)
	return acct
}

// newOpenAuction creates an auction, subscribes the given accounts and
// flips it open the way the scheduler would.
func (s *services) newOpenAuction(t *testing.T, ownerID int, minBid float64, subscriberIDs ...int) int {
	t.Helper()
	ctx := context.Background()

	created, err := s.auctions.CreateAuction(ctx, inbound.CreateAuctionRequest{
		OwnerID:     ownerID,
		Name:        "lot",
		Description: "a fine lot",
		MinBid:      minBid,
		StartTime:   time.Now(),
		MaxTimeout:  60,
	})
	require.NoError(t, err)

	for _, id := range subscriberIDs {
		require.NoError(t, s.auctions.Subscribe(ctx, created.ID, id))
	}

	a, err := s.auctionRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	a.Open = true
	require.NoError(t, s.auctionRepo.Update(ctx, a))

	return created.ID
}
