package store

import (
	"auction-engine/internal/domain/account"
	"auction-engine/internal/domain/auction"
	"auction-engine/internal/domain/bid"
	"auction-engine/internal/ports/outbound"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// RepositoryFactory opens the three entity containers and hands out the
// repositories built on them
type RepositoryFactory struct {
	auctions *Store[*auction.Auction]
	bids     *Store[*bid.Bid]
	accounts *Store[*account.Account]
}

type RepositoryFactoryParams struct {
	Fs     afero.Fs
	Dir    string
	Logger zerolog.Logger
}

// NewRepositoryFactory opens (or initializes) one container per entity type
func NewRepositoryFactory(params RepositoryFactoryParams) (*RepositoryFactory, error) {
	auctions, err := New[*auction.Auction](Params{Fs: params.Fs, Dir: params.Dir, Name: "auctions", Logger: params.Logger})
	if err != nil {
		return nil, err
	}

	bids, err := New[*bid.Bid](Params{Fs: params.Fs, Dir: params.Dir, Name: "bids", Logger: params.Logger})
	if err != nil {
		return nil, err
	}

	accounts, err := New[*account.Account](Params{Fs: params.Fs, Dir: params.Dir, Name: "accounts", Logger: params.Logger})
	if err != nil {
		return nil, err
	}

	return &RepositoryFactory{auctions: auctions, bids: bids, accounts: accounts}, nil
}

// GetAuctionRepository returns the auction repository
func (f *RepositoryFactory) GetAuctionRepository() outbound.AuctionRepository {
	return NewAuctionRepository(f.auctions)
}

// GetBidRepository returns the bid repository
func (f *RepositoryFactory) GetBidRepository() outbound.BidRepository {
	return NewBidRepository(f.bids)
}

// GetAccountRepository returns the account repository
func (f *RepositoryFactory) GetAccountRepository() outbound.AccountRepository {
	return NewAccountRepository(f.accounts)
}
