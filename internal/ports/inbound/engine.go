package inbound

import (
	"context"
	"time"

	"auction-engine/internal/domain/account"
	"auction-engine/internal/domain/auction"
	"auction-engine/internal/domain/bid"
)

// AuctionService defines the interface for auction lifecycle operations
type AuctionService interface {
	// CreateAuction creates a new auction and starts its scheduler
	CreateAuction(ctx context.Context, req CreateAuctionRequest) (*auction.Auction, error)

	// GetAuction retrieves an auction by id
	GetAuction(ctx context.Context, auctionID int) (*auction.Auction, error)

	// ListAuctions retrieves a snapshot of all auctions, open or not
	ListAuctions(ctx context.Context) ([]*auction.Auction, error)

	// ListAuctionSummaries renders the one-line listing of every auction,
	// owner name included
	ListAuctionSummaries(ctx context.Context) ([]string, error)

	// Subscribe adds an account to an auction's notification set
	Subscribe(ctx context.Context, auctionID, accountID int) error

	// Unsubscribe removes an account from an auction's notification set
	Unsubscribe(ctx context.Context, auctionID, accountID int) error

	// DeleteAuction removes an auction and, first, all of its bids
	DeleteAuction(ctx context.Context, auctionID, requesterID int) error
}

// BidService defines the interface for bid operations
type BidService interface {
	// PlaceBid validates and appends a new bid on an open auction
	PlaceBid(ctx context.Context, req PlaceBidRequest) (*bid.Bid, error)

	// ListBids retrieves all bids for an auction
	ListBids(ctx context.Context, auctionID int) ([]*bid.Bid, error)

	// HighestBid retrieves the maximum-value bid for an auction
	HighestBid(ctx context.Context, auctionID int) (*bid.Bid, error)
}

// AccountService defines the interface for account operations
type AccountService interface {
	// CreateAccount registers a new account
	CreateAccount(ctx context.Context, req CreateAccountRequest) (*account.Account, error)

	// GetAccount retrieves an account by id
	GetAccount(ctx context.Context, accountID int) (*account.Account, error)

	// DeleteAccount removes an account, cascading to its auctions and bids
	DeleteAccount(ctx context.Context, accountID int) error
}

// request to create an auction
type CreateAuctionRequest struct {
	OwnerID     int       `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	MinBid      float64   `json:"min_bid"`
	StartTime   time.Time `json:"start_time"`
	MaxTimeout  int       `json:"max_timeout"`
}

// request to place a bid
type PlaceBidRequest struct {
	AuctionID int     `json:"auction_id"`
	BidderID  int     `json:"bidder_id"`
	Value     float64 `json:"value"`
}

// request to register an account
type CreateAccountRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email"`
}
