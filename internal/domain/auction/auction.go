package auction

import (
	"fmt"
	"time"
)

// Auction represents a timed auction for a single product. Ids are dense,
// monotonically increasing integers assigned by the store and never reused.
//
// Open is true only inside the bidding window. Closed is the terminal
// marker; it distinguishes a finished auction from one still waiting for
// its start time, which matters when schedules are re-armed at boot.
type Auction struct {
	ID            int       `json:"id"`
	OwnerID       int       `json:"owner_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	MinBid        float64   `json:"min_bid"`
	StartTime     time.Time `json:"start_time"`
	MaxTimeout    int       `json:"max_timeout"`
	LastBidID     *int      `json:"last_bid_id,omitempty"`
	SubscriberIDs []int     `json:"subscriber_ids"`
	Open          bool      `json:"open"`
	Closed        bool      `json:"closed"`
}

// IsSubscribed returns true if the account follows this auction
func (a *Auction) IsSubscribed(accountID int) bool {
	for _, id := range a.SubscriberIDs {
		if id == accountID {
			return true
		}
	}
	return false
}

// Subscribe adds the account to the auction's subscriber set.
// Returns false if the account is already a member.
func (a *Auction) Subscribe(accountID int) bool {
	if a.IsSubscribed(accountID) {
		return false
	}
	a.SubscriberIDs = append(a.SubscriberIDs, accountID)
	return true
}

// Unsubscribe removes the account from the subscriber set.
// Returns false if the account is not a member.
func (a *Auction) Unsubscribe(accountID int) bool {
	for i, id := range a.SubscriberIDs {
		if id == accountID {
			a.SubscriberIDs = append(a.SubscriberIDs[:i], a.SubscriberIDs[i+1:]...)
			return true
		}
	}
	return false
}

// MaxTimeoutDuration returns the close countdown as a duration
func (a *Auction) MaxTimeoutDuration() time.Duration {
	return time.Duration(a.MaxTimeout) * time.Second
}

// TimeToStart returns the remaining time before the auction opens,
// clamped to zero once the start time has passed.
func (a *Auction) TimeToStart(now time.Time) time.Duration {
	delay := a.StartTime.Sub(now)
	if delay < 0 {
		return 0
	}
	return delay
}

// Summary returns the one-line listing representation of the auction
func (a *Auction) Summary(ownerName string) string {
	return fmt.Sprintf("%d,%s,%s,%.2f,%s,%d,%s",
		a.ID, a.Name, a.Description, a.MinBid,
		a.StartTime.Format(time.RFC3339), a.MaxTimeout, ownerName)
}

// RecordID implements the store record contract
func (a *Auction) RecordID() int { return a.ID }
