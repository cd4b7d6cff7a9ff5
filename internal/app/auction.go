package app

import (
	"context"

	"auction-engine/internal/adapters/scheduler"
	"auction-engine/internal/domain/auction"
	"auction-engine/internal/domain/shared"
	"auction-engine/internal/ports/inbound"
	"auction-engine/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// AuctionService implements the auction registry use cases: creation,
// listing, the follow/unfollow subscriber relation and cascading deletion.
type AuctionService struct {
	auctionRepo outbound.AuctionRepository
	bidRepo     outbound.BidRepository
	accountRepo outbound.AccountRepository
	scheduler   *scheduler.AuctionScheduler
	logger      zerolog.Logger
}

type AuctionServiceParams struct {
	AuctionRepo outbound.AuctionRepository
	BidRepo     outbound.BidRepository
	AccountRepo outbound.AccountRepository
	Scheduler   *scheduler.AuctionScheduler
	Logger      zerolog.Logger
}

// NewAuctionService creates a new auction service
func NewAuctionService(params AuctionServiceParams) *AuctionService {
	return &AuctionService{
		auctionRepo: params.AuctionRepo,
		bidRepo:     params.BidRepo,
		accountRepo: params.AccountRepo,
		scheduler:   params.Scheduler,
		logger:      params.Logger.With().Str("component", "auction_service").Logger(),
	}
}

// CreateAuction validates the request, persists a new pending auction and
// starts its lifecycle scheduler.
func (service *AuctionService) CreateAuction(ctx context.Context, req inbound.CreateAuctionRequest) (*auction.Auction, error) {
	service.logger.Info().
		Int("owner_id", req.OwnerID).
		Str("name", req.Name).
		Float64("min_bid", req.MinBid).
		Time("start_time", req.StartTime).
		Int("max_timeout", req.MaxTimeout).
		Msg("Attempting to create auction")

	if req.MinBid <= 0 {
		service.logger.Warn().Float64("min_bid", req.MinBid).Msg("Minimum bid must be greater than 0")
		return nil, shared.ErrInvalidMinBid
	}

	if req.MaxTimeout <= 0 {
		service.logger.Warn().Int("max_timeout", req.MaxTimeout).Msg("Max timeout must be greater than 0")
		return nil, shared.ErrInvalidTimeout
	}

	owner, err := service.accountRepo.GetByID(ctx, req.OwnerID)
	if err != nil {
		service.logger.Error().Err(err).Int("owner_id", req.OwnerID).Msg("Owner not found")
		return nil, err
	}

	created, err := service.auctionRepo.Create(ctx, func(id int) *auction.Auction {
		return &auction.Auction{
			ID:            id,
			OwnerID:       owner.ID,
			Name:          req.Name,
			Description:   req.Description,
			MinBid:        req.MinBid,
			StartTime:     req.StartTime,
			MaxTimeout:    req.MaxTimeout,
			SubscriberIDs: []int{},
			Open:          false,
			Closed:        false,
		}
	})
	if err != nil {
		service.logger.Error().Err(err).Msg("Failed to persist auction")
		return nil, err
	}

	if service.scheduler != nil {
		service.scheduler.ScheduleAuction(created.ID)
	}

	service.logger.Info().Int("auction_id", created.ID).Msg("Auction created")
	return created, nil
}

// GetAuction retrieves an auction by id
func (service *AuctionService) GetAuction(ctx context.Context, auctionID int) (*auction.Auction, error) {
	return service.auctionRepo.GetByID(ctx, auctionID)
}

// ListAuctions retrieves a snapshot of all auctions, open or not
func (service *AuctionService) ListAuctions(ctx context.Context) ([]*auction.Auction, error) {
	return service.auctionRepo.List(ctx)
}

// ListAuctionSummaries renders the one-line listing of every auction. An
// owner whose account record is missing shows up with an empty name
// instead of failing the whole listing.
func (service *AuctionService) ListAuctionSummaries(ctx context.Context) ([]string, error) {
	auctions, err := service.auctionRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	ownerNames := make(map[int]string)
	summaries := make([]string, 0, len(auctions))
	for _, a := range auctions {
		name, seen := ownerNames[a.OwnerID]
		if !seen {
			owner, err := service.accountRepo.GetByID(ctx, a.OwnerID)
			if err != nil {
				service.logger.Warn().Err(err).
					Int("auction_id", a.ID).
					Int("owner_id", a.OwnerID).
					Msg("Owner account missing for listing")
			} else {
				name = owner.Name
			}
			ownerNames[a.OwnerID] = name
		}
		summaries = append(summaries, a.Summary(name))
	}

	return summaries, nil
}

// Subscribe adds the account to the auction's notification set
func (service *AuctionService) Subscribe(ctx context.Context, auctionID, accountID int) error {
	a, err := service.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return err
	}

	if !a.Subscribe(accountID) {
		service.logger.Warn().
			Int("auction_id", auctionID).
			Int("account_id", accountID).
			Msg("Account already subscribed")
		return shared.ErrAlreadySubscribed
	}

	if err := service.auctionRepo.Update(ctx, a); err != nil {
		return err
	}

	service.logger.Info().
		Int("auction_id", auctionID).
		Int("account_id", accountID).
		Msg("Account subscribed to auction")
	return nil
}

// Unsubscribe removes the account from the auction's notification set
func (service *AuctionService) Unsubscribe(ctx context.Context, auctionID, accountID int) error {
	a, err := service.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return err
	}

	if !a.Unsubscribe(accountID) {
		service.logger.Warn().
			Int("auction_id", auctionID).
			Int("account_id", accountID).
			Msg("Account not subscribed")
		return shared.ErrNotSubscribed
	}

	if err := service.auctionRepo.Update(ctx, a); err != nil {
		return err
	}

	service.logger.Info().
		Int("auction_id", auctionID).
		Int("account_id", accountID).
		Msg("Account unsubscribed from auction")
	return nil
}

// DeleteAuction removes the auction and, first, every bid placed on it, so
// no bid ever outlives its auction. Only the owner may delete.
func (service *AuctionService) DeleteAuction(ctx context.Context, auctionID, requesterID int) error {
	a, err := service.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return err
	}

	if a.OwnerID != requesterID {
		service.logger.Warn().
			Int("auction_id", auctionID).
			Int("requester_id", requesterID).
			Int("owner_id", a.OwnerID).
			Msg("Delete refused, requester is not the owner")
		return shared.ErrNotOwner
	}

	bids, err := service.bidRepo.GetByAuctionID(ctx, auctionID)
	if err != nil {
		return err
	}
	for _, b := range bids {
		if err := service.bidRepo.Delete(ctx, b.ID); err != nil {
			service.logger.Error().Err(err).Int("bid_id", b.ID).Msg("Failed to delete bid during cascade")
			return err
		}
	}

	if err := service.auctionRepo.Delete(ctx, auctionID); err != nil {
		return err
	}

	service.logger.Info().
		Int("auction_id", auctionID).
		Int("deleted_bids", len(bids)).
		Msg("Auction deleted")
	return nil
}
