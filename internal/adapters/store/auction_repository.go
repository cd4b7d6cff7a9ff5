package store

import (
	"context"
	"errors"

	"auction-engine/internal/domain/auction"
	"auction-engine/internal/domain/shared"
)

// AuctionRepository implements the auction repository interface on top of
// the auctions container
type AuctionRepository struct {
	store *Store[*auction.Auction]
}

// NewAuctionRepository creates a new auction repository
func NewAuctionRepository(store *Store[*auction.Auction]) *AuctionRepository {
	return &AuctionRepository{store: store}
}

func (r *AuctionRepository) Create(ctx context.Context, build func(id int) *auction.Auction) (*auction.Auction, error) {
	return r.store.Create(build)
}

func (r *AuctionRepository) GetByID(ctx context.Context, id int) (*auction.Auction, error) {
	a, err := r.store.Get(id)
	if err != nil {
		if errors.Is(err, shared.ErrRecordNotFound) {
			return nil, shared.ErrAuctionNotFound
		}
		return nil, err
	}
	return a, nil
}

// List retrieves a snapshot of all auctions, open or not
func (r *AuctionRepository) List(ctx context.Context) ([]*auction.Auction, error) {
	return r.store.All()
}

// ListByOwner retrieves the auctions created by an account
func (r *AuctionRepository) ListByOwner(ctx context.Context, ownerID int) ([]*auction.Auction, error) {
	return r.store.Filter(func(a *auction.Auction) bool {
		return a.OwnerID == ownerID
	})
}

func (r *AuctionRepository) Update(ctx context.Context, a *auction.Auction) error {
	return r.store.Save(a)
}

func (r *AuctionRepository) Delete(ctx context.Context, id int) error {
	if err := r.store.Delete(id); err != nil {
		if errors.Is(err, shared.ErrRecordNotFound) {
			return shared.ErrAuctionNotFound
		}
		return err
	}
	return nil
}
