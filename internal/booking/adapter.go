// Package booking hands completed leads to whichever consultation-scheduling
// backend the merchant uses: an external booking service over HTTP, or a
// manual handoff that notifies the merchant to follow up themselves.
package booking

import (
	"context"
	"time"
)

// LeadSummary is the collected profile the adapter works from.
type LeadSummary struct {
	MerchantID   string
	SessionID    string
	LeadID       string
	MerchantName string
	Name         string
	Phone        string
	Email        string
	Location     string
	Style        string
	Scope        string
	Budget       string
	Notes        string
	CollectedAt  time.Time
}

// Result is the outcome of a scheduling attempt.
type Result struct {
	// Booked indicates an appointment was created automatically.
	Booked bool
	// Reference identifies the booking in the external system.
	Reference string
	// HandoffMessage is the customer-facing line when the adapter cannot
	// book automatically.
	HandoffMessage string
	// ScheduledFor is set when a concrete slot was reserved.
	ScheduledFor *time.Time
}

// Adapter is implemented by every scheduling backend.
type Adapter interface {
	// Name identifies the adapter ("http", "manual").
	Name() string

	// Schedule attempts to create a consultation booking for the lead.
	// Failures are returned to the caller, who degrades to a manual-style
	// reply; the conversation itself never fails on a booking error.
	Schedule(ctx context.Context, lead LeadSummary) (*Result, error)
}
