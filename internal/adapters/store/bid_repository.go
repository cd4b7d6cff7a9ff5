package store

import (
	"context"
	"errors"

	"auction-engine/internal/domain/bid"
	"auction-engine/internal/domain/shared"
)

// BidRepository implements the bid repository interface on top of the
// bids container
type BidRepository struct {
	store *Store[*bid.Bid]
}

// NewBidRepository creates a new bid repository
func NewBidRepository(store *Store[*bid.Bid]) *BidRepository {
	return &BidRepository{store: store}
}

func (r *BidRepository) Create(ctx context.Context, build func(id int) *bid.Bid) (*bid.Bid, error) {
	return r.store.Create(build)
}

func (r *BidRepository) GetByID(ctx context.Context, id int) (*bid.Bid, error) {
	b, err := r.store.Get(id)
	if err != nil {
		if errors.Is(err, shared.ErrRecordNotFound) {
			return nil, shared.ErrBidNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetByAuctionID retrieves all bids for an auction
func (r *BidRepository) GetByAuctionID(ctx context.Context, auctionID int) ([]*bid.Bid, error) {
	return r.store.Filter(func(b *bid.Bid) bool {
		return b.AuctionID == auctionID
	})
}

// GetByBidderID retrieves all bids placed by an account
func (r *BidRepository) GetByBidderID(ctx context.Context, bidderID int) ([]*bid.Bid, error) {
	return r.store.Filter(func(b *bid.Bid) bool {
		return b.BidderID == bidderID
	})
}

// GetHighestBid retrieves the bid with the maximum value for an auction.
// Ties at the maximum resolve to whichever maximal bid the scan sees first;
// callers must not depend on a particular tie-break.
func (r *BidRepository) GetHighestBid(ctx context.Context, auctionID int) (*bid.Bid, error) {
	bids, err := r.GetByAuctionID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if len(bids) == 0 {
		return nil, shared.ErrNoBidsFound
	}

	highest := bids[0]
	for _, b := range bids[1:] {
		if b.Value > highest.Value {
			highest = b
		}
	}
	return highest, nil
}

func (r *BidRepository) Delete(ctx context.Context, id int) error {
	if err := r.store.Delete(id); err != nil {
		if errors.Is(err, shared.ErrRecordNotFound) {
			return shared.ErrBidNotFound
		}
		return err
	}
	return nil
}
