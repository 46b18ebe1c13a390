package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketCategory classifies what a ticket is about.
type TicketCategory string

const (
	CategoryGeneral        TicketCategory = "GENERAL"
	CategoryTechnical      TicketCategory = "TECHNICAL"
	CategoryBilling        TicketCategory = "BILLING"
	CategoryAccount        TicketCategory = "ACCOUNT"
	CategoryFeatureRequest TicketCategory = "FEATURE_REQUEST"
	CategoryBugReport      TicketCategory = "BUG_REPORT"
	CategoryOther          TicketCategory = "OTHER"
)

// Valid reports whether c is a known category.
func (c TicketCategory) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryTechnical, CategoryBilling, CategoryAccount,
		CategoryFeatureRequest, CategoryBugReport, CategoryOther:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. Upvotes, Downvotes and
// ReplyCount are derived from the vote and reply tables.
type Ticket struct {
	ID            string
	Subject       string
	Description   string
	Category      TicketCategory
	Status        TicketStatus
	AttachmentURL *string
	Upvotes       int
	Downvotes     int
	ReplyCount    int
	CreatorID     string
	AssigneeID    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsAssigned reports whether an agent owns the ticket.
func (t *Ticket) IsAssigned() bool {
	return t.AssigneeID != nil && *t.AssigneeID != ""
}
