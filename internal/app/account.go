package app

import (
	"context"
	"errors"

	"auction-engine/internal/domain/account"
	"auction-engine/internal/domain/shared"
	"auction-engine/internal/ports/inbound"
	"auction-engine/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// AccountService implements account registration and cascading removal
type AccountService struct {
	accountRepo outbound.AccountRepository
	auctionRepo outbound.AuctionRepository
	bidRepo     outbound.BidRepository
	logger      zerolog.Logger
}

type AccountServiceParams struct {
	AccountRepo outbound.AccountRepository
	AuctionRepo outbound.AuctionRepository
	BidRepo     outbound.BidRepository
	Logger      zerolog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(params AccountServiceParams) *AccountService {
	return &AccountService{
		accountRepo: params.AccountRepo,
		auctionRepo: params.AuctionRepo,
		bidRepo:     params.BidRepo,
		logger:      params.Logger.With().Str("component", "account_service").Logger(),
	}
}

// CreateAccount registers a new account
func (service *AccountService) CreateAccount(ctx context.Context, req inbound.CreateAccountRequest) (*account.Account, error) {
	created, err := service.accountRepo.Create(ctx, func(id int) *account.Account {
		return &account.Account{
			ID:      id,
			Name:    req.Name,
			Phone:   req.Phone,
			Address: req.Address,
			Email:   req.Email,
		}
	})
	if err != nil {
		service.logger.Error().Err(err).Msg("Failed to persist account")
		return nil, err
	}

	service.logger.Info().Int("account_id", created.ID).Str("name", created.Name).Msg("Account created")
	return created, nil
}

// GetAccount retrieves an account by id
func (service *AccountService) GetAccount(ctx context.Context, accountID int) (*account.Account, error) {
	return service.accountRepo.GetByID(ctx, accountID)
}

// DeleteAccount removes the account and everything it produced: its own
// auctions (each cascading to their bids first), then its bids on other
// auctions, then the account record. Schedulers for the removed auctions
// terminate on their own once they observe the record gone.
func (service *AccountService) DeleteAccount(ctx context.Context, accountID int) error {
	if _, err := service.accountRepo.GetByID(ctx, accountID); err != nil {
		return err
	}

	owned, err := service.auctionRepo.ListByOwner(ctx, accountID)
	if err != nil {
		return err
	}
	for _, a := range owned {
		bids, err := service.bidRepo.GetByAuctionID(ctx, a.ID)
		if err != nil {
			return err
		}
		for _, b := range bids {
			if err := service.bidRepo.Delete(ctx, b.ID); err != nil {
				return err
			}
		}
		if err := service.auctionRepo.Delete(ctx, a.ID); err != nil {
			return err
		}
	}

	placed, err := service.bidRepo.GetByBidderID(ctx, accountID)
	if err != nil {
		return err
	}
	touched := make(map[int]bool)
	for _, b := range placed {
		if err := service.bidRepo.Delete(ctx, b.ID); err != nil {
			return err
		}
		touched[b.AuctionID] = true
	}

	// Deleting bids can leave an auction's last-bid pointer dangling;
	// repoint it at the newest remaining bid, or clear it.
	for auctionID := range touched {
		if err := service.repairLastBid(ctx, auctionID); err != nil {
			return err
		}
	}

	if err := service.accountRepo.Delete(ctx, accountID); err != nil {
		return err
	}

	service.logger.Info().
		Int("account_id", accountID).
		Int("deleted_auctions", len(owned)).
		Int("deleted_bids", len(placed)).
		Msg("Account deleted")
	return nil
}

func (service *AccountService) repairLastBid(ctx context.Context, auctionID int) error {
	a, err := service.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, shared.ErrAuctionNotFound) {
			// Auction removed by the owned-auction cascade above
			return nil
		}
		return err
	}

	bids, err := service.bidRepo.GetByAuctionID(ctx, auctionID)
	if err != nil {
		return err
	}

	if len(bids) == 0 {
		a.LastBidID = nil
		return service.auctionRepo.Update(ctx, a)
	}

	newest := bids[0]
	for _, b := range bids[1:] {
		if b.ID > newest.ID {
			newest = b
		}
	}
	a.LastBidID = &newest.ID
	return service.auctionRepo.Update(ctx, a)
}
