package domain

import "time"

// VoteType is the direction of a vote.
type VoteType string

const (
	VoteUp   VoteType = "UPVOTE"
	VoteDown VoteType = "DOWNVOTE"
)

// Valid reports whether v is a known vote type.
func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// Vote records a single user's opinion on a ticket. There is at most one
// vote per (TicketID, VoterID).
type Vote struct {
	ID        string
	TicketID  string
	VoterID   string
	Type      VoteType
	CreatedAt time.Time
}

// VoteTally is the recomputed vote state of a ticket.
type VoteTally struct {
	Upvotes   int
	Downvotes int
	// Current is the caller's vote after the operation, nil when removed.
	Current *VoteType
}
