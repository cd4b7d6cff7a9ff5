package bid

import "time"

// Bid represents a bid placed on an auction. Bids share one id namespace
// across all auctions and are immutable once created; they only go away
// through cascading account or auction deletion.
type Bid struct {
	ID        int       `json:"id"`
	AuctionID int       `json:"auction_id"`
	BidderID  int       `json:"bidder_id"`
	Value     float64   `json:"value"`
	PlacedAt  time.Time `json:"placed_at"`
}

// Deadline returns the close deadline this bid imposes on its auction
func (b *Bid) Deadline(maxTimeout time.Duration) time.Time {
	return b.PlacedAt.Add(maxTimeout)
}

// RecordID implements the store record contract
func (b *Bid) RecordID() int { return b.ID }
