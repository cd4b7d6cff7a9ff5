package shared

import "errors"

// Domain-specific errors
var (
	// Auction errors
	ErrAuctionNotFound   = errors.New("auction not found")
	ErrAuctionNotOpen    = errors.New("auction is not open for bids")
	ErrInvalidMinBid     = errors.New("minimum bid must be greater than 0")
	ErrInvalidTimeout    = errors.New("max timeout must be greater than 0")
	ErrNotOwner          = errors.New("requester does not own the auction")
	ErrAlreadySubscribed = errors.New("account already subscribed to auction")
	ErrNotSubscribed     = errors.New("account not subscribed to auction")

	// Bid errors
	ErrBidNotFound   = errors.New("bid not found")
	ErrBidTooLow     = errors.New("bid value is below the minimum bid")
	ErrNotSubscriber = errors.New("bidder is not a subscriber of the auction")
	ErrNoBidsFound   = errors.New("no bids found")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")

	// Store errors
	ErrRecordNotFound = errors.New("record not found")
	ErrStoreIO        = errors.New("record store I/O failure")
)
