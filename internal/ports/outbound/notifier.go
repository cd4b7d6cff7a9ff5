package outbound

import "context"

// EventType represents the type of event pushed to subscribers
type EventType string

const (
	EventTypeAuctionOpened EventType = "auction.opened"
	EventTypeBidPlaced     EventType = "bid.placed"
	EventTypeAuctionEnded  EventType = "auction.ended"
)

// Event represents a state-change notification for one auction
type Event struct {
	Type      EventType              `json:"type"`
	AuctionID int                    `json:"auction_id"`
	Data      map[string]interface{} `json:"data"`
	Timestamp int64                  `json:"timestamp"`
}

// NotificationSink delivers events to subscriber identities.
//
// The contract is fire-and-forget: delivery failure is absorbed by the
// implementation (or logged and dropped by the caller) and never rolls back
// the state change the event reports. Implementations must not block the
// engine beyond their own bounded dispatch.
type NotificationSink interface {
	Notify(ctx context.Context, subscriberID int, event Event) error
}
