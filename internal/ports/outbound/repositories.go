package outbound

import (
	"context"

	"auction-engine/internal/domain/account"
	"auction-engine/internal/domain/auction"
	"auction-engine/internal/domain/bid"
)

// AuctionRepository defines the interface for auction data operations
type AuctionRepository interface {
	// Create persists a new auction, assigning the next dense id
	Create(ctx context.Context, build func(id int) *auction.Auction) (*auction.Auction, error)

	// GetByID retrieves an auction by id
	GetByID(ctx context.Context, id int) (*auction.Auction, error)

	// List retrieves a snapshot of all auctions
	List(ctx context.Context) ([]*auction.Auction, error)

	// ListByOwner retrieves the auctions created by an account
	ListByOwner(ctx context.Context, ownerID int) ([]*auction.Auction, error)

	// Update upserts an auction record
	Update(ctx context.Context, a *auction.Auction) error

	// Delete removes an auction record
	Delete(ctx context.Context, id int) error
}

// BidRepository defines the interface for bid data operations
type BidRepository interface {
	// Create persists a new bid, assigning the next dense id
	Create(ctx context.Context, build func(id int) *bid.Bid) (*bid.Bid, error)

	// GetByID retrieves a bid by id
	GetByID(ctx context.Context, id int) (*bid.Bid, error)

	// GetByAuctionID retrieves all bids for an auction
	GetByAuctionID(ctx context.Context, auctionID int) ([]*bid.Bid, error)

	// GetByBidderID retrieves all bids placed by an account
	GetByBidderID(ctx context.Context, bidderID int) ([]*bid.Bid, error)

	// GetHighestBid retrieves the bid with the maximum value for an auction.
	// When several bids tie at the maximum, which one is returned is
	// unspecified; returns shared.ErrNoBidsFound when the auction has none.
	GetHighestBid(ctx context.Context, auctionID int) (*bid.Bid, error)

	// Delete removes a bid record
	Delete(ctx context.Context, id int) error
}

// AccountRepository defines the interface for account data operations
type AccountRepository interface {
	// Create persists a new account, assigning the next dense id
	Create(ctx context.Context, build func(id int) *account.Account) (*account.Account, error)

	// GetByID retrieves an account by id
	GetByID(ctx context.Context, id int) (*account.Account, error)

	// Delete removes an account record
	Delete(ctx context.Context, id int) error
}
