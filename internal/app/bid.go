package app

import (
	"context"
	"time"

	"auction-engine/internal/domain/bid"
	"auction-engine/internal/domain/shared"
	"auction-engine/internal/ports/inbound"
	"auction-engine/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// BidService implements the bid ledger use cases
type BidService struct {
	bidRepo     outbound.BidRepository
	auctionRepo outbound.AuctionRepository
	accountRepo outbound.AccountRepository
	sink        outbound.NotificationSink
	logger      zerolog.Logger
}

type BidServiceParams struct {
	BidRepo     outbound.BidRepository
	AuctionRepo outbound.AuctionRepository
	AccountRepo outbound.AccountRepository
	Sink        outbound.NotificationSink
	Logger      zerolog.Logger
}

// NewBidService creates a new bid service
func NewBidService(params BidServiceParams) *BidService {
	return &BidService{
		bidRepo:     params.BidRepo,
		auctionRepo: params.AuctionRepo,
		accountRepo: params.AccountRepo,
		sink:        params.Sink,
		logger:      params.Logger.With().Str("component", "bid_service").Logger(),
	}
}

// PlaceBid validates and appends a new bid on an open auction.
//
// Acceptance requires the auction to be open, the value to reach the
// minimum bid, and the bidder to follow the auction. A bid lower than a
// previous bid on the same auction is legal as long as it clears the
// minimum; only the close-time winner resolution cares about the maximum.
// After a successful placement every other current subscriber is notified;
// a failed notification never rolls the bid back.
func (service *BidService) PlaceBid(ctx context.Context, req inbound.PlaceBidRequest) (*bid.Bid, error) {
	service.logger.Info().
		Int("auction_id", req.AuctionID).
		Int("bidder_id", req.BidderID).
		Float64("value", req.Value).
		Msg("Attempting to place bid")

	a, err := service.auctionRepo.GetByID(ctx, req.AuctionID)
	if err != nil {
		service.logger.Error().Err(err).Int("auction_id", req.AuctionID).Msg("Auction not found")
		return nil, err
	}

	if !a.Open {
		service.logger.Warn().Int("auction_id", req.AuctionID).Msg("Auction not open for bids")
		return nil, shared.ErrAuctionNotOpen
	}

	if req.Value < a.MinBid {
		service.logger.Warn().
			Int("auction_id", req.AuctionID).
			Float64("min_bid", a.MinBid).
			Float64("value", req.Value).
			Msg("Bid below minimum")
		return nil, shared.ErrBidTooLow
	}

	if !a.IsSubscribed(req.BidderID) {
		service.logger.Warn().
			Int("auction_id", req.AuctionID).
			Int("bidder_id", req.BidderID).
			Msg("Bidder is not a subscriber")
		return nil, shared.ErrNotSubscriber
	}

	bidder, err := service.accountRepo.GetByID(ctx, req.BidderID)
	if err != nil {
		service.logger.Error().Err(err).Int("bidder_id", req.BidderID).Msg("Bidder account not found")
		return nil, err
	}

	newBid, err := service.bidRepo.Create(ctx, func(id int) *bid.Bid {
		return &bid.Bid{
			ID:        id,
			AuctionID: req.AuctionID,
			BidderID:  bidder.ID,
			Value:     req.Value,
			PlacedAt:  time.Now().Truncate(time.Second),
		}
	})
	if err != nil {
		service.logger.Error().Err(err).Msg("Failed to persist bid")
		return nil, err
	}

	// Separate save on a separate container: if this fails after the bid
	// was written, the two collections stay inconsistent. Accepted, not
	// silently repaired.
	a.LastBidID = &newBid.ID
	if err := service.auctionRepo.Update(ctx, a); err != nil {
		service.logger.Error().Err(err).
			Int("bid_id", newBid.ID).
			Int("auction_id", a.ID).
			Msg("Bid written but auction pointer update failed")
		return nil, err
	}

	service.notifySubscribers(ctx, a.ID, a.SubscriberIDs, bidder.ID, bidder.Name, newBid.Value)

	service.logger.Info().
		Int("bid_id", newBid.ID).
		Int("auction_id", newBid.AuctionID).
		Float64("value", newBid.Value).
		Msg("Bid placed")

	return newBid, nil
}

// notifySubscribers pushes the bid-accepted event to every current
// subscriber except the bidder itself
func (service *BidService) notifySubscribers(ctx context.Context, auctionID int, subscriberIDs []int, bidderID int, bidderName string, value float64) {
	bids, err := service.bidRepo.GetByAuctionID(ctx, auctionID)
	if err != nil {
		service.logger.Error().Err(err).Int("auction_id", auctionID).Msg("Failed to count bids for notification")
		return
	}

	event := outbound.Event{
		Type:      outbound.EventTypeBidPlaced,
		AuctionID: auctionID,
		Data: map[string]interface{}{
			"auction_id":       auctionID,
			"bidder_name":      bidderName,
			"value":            value,
			"subscriber_count": len(subscriberIDs),
			"bid_count":        len(bids),
		},
	}

	for _, subscriberID := range subscriberIDs {
		if subscriberID == bidderID {
			continue
		}
		if err := service.sink.Notify(ctx, subscriberID, event); err != nil {
			service.logger.Warn().Err(err).
				Int("subscriber_id", subscriberID).
				Int("auction_id", auctionID).
				Msg("Failed to notify subscriber")
		}
	}
}

// ListBids retrieves all bids for an auction
func (service *BidService) ListBids(ctx context.Context, auctionID int) ([]*bid.Bid, error) {
	return service.bidRepo.GetByAuctionID(ctx, auctionID)
}

// HighestBid retrieves the maximum-value bid for an auction. Which of
// several tied maximal bids comes back is unspecified.
func (service *BidService) HighestBid(ctx context.Context, auctionID int) (*bid.Bid, error) {
	return service.bidRepo.GetHighestBid(ctx, auctionID)
}
