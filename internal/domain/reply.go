package domain

import "time"

// Reply is one message in a ticket thread. Replies are never edited.
type Reply struct {
	ID        string
	TicketID  string
	AuthorID  string
	Message   string
	CreatedAt time.Time
}
