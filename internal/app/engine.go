package app

import (
	"auction-engine/internal/adapters/notifier"
	"auction-engine/internal/ports/inbound"
)

// Engine bundles the inbound services plus the session registry. The
// command layer (external to this module) drives auctions, bids and
// accounts through it and registers a session per logged-in connection.
type Engine struct {
	Auctions inbound.AuctionService
	Bids     inbound.BidService
	Accounts inbound.AccountService
	Sessions *notifier.SessionRegistry
}
