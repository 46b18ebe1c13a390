package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/quickdesk/internal/domain"
)

const (
	timeLayout = "Jan 02, 2006 at 15:04"
	signature  = "Best regards,  \nQuick Desk Support Team"
)

// Recipient is the addressee of a notification.
type Recipient struct {
	Name  string
	Email string
}

// TicketCreated confirms a new ticket to its creator.
func TicketCreated(ticket domain.Ticket, creator Recipient) Message {
	body := fmt.Sprintf(`Dear %s,

Your support ticket has been created successfully!

- **Ticket ID:** %s
- **Subject:** %s
- **Category:** %s
- **Status:** %s
- **Created:** %s

Our support team has been notified and will review your ticket shortly.
You will receive email notifications about any status updates.

%s
`,
		creator.Name, ticket.ID, ticket.Subject, categoryLabel(ticket.Category),
		ticket.Status, formatTime(ticket.CreatedAt), signature)

	return Message{
		To:       creator.Email,
		Subject:  "Ticket Created Successfully - #" + ticket.ID,
		Markdown: body,
	}
}

// TicketStatusChanged tells the creator about a status transition.
// assignee is nil while no agent owns the ticket.
func TicketStatusChanged(ticket domain.Ticket, oldStatus, newStatus domain.TicketStatus, creator Recipient, assignee *Recipient) Message {
	assignment := "Not yet assigned to an agent"
	if assignee != nil {
		assignment = "Assigned Agent: " + assignee.Name
	}
	body := fmt.Sprintf(`Dear %s,

Your support ticket status has been updated.

- **Ticket ID:** %s
- **Subject:** %s
- **Status Changed:** %s → %s
- **Updated:** %s

%s

Thank you for using our support system.

%s
`,
		creator.Name, ticket.ID, ticket.Subject, oldStatus, newStatus,
		formatTime(ticket.UpdatedAt), assignment, signature)

	return Message{
		To:       creator.Email,
		Subject:  "Ticket Status Updated - #" + ticket.ID,
		Markdown: body,
	}
}

// TicketAssignedToCreator tells the creator which agent picked the ticket up.
func TicketAssignedToCreator(ticket domain.Ticket, creator, agent Recipient) Message {
	body := fmt.Sprintf(`Dear %s,

Good news! Your support ticket has been assigned to our support team.

- **Ticket ID:** %s
- **Subject:** %s
- **Assigned Agent:** %s
- **Agent Email:** %s

The assigned agent will begin working on your ticket and will contact you if additional information is needed.

%s
`,
		creator.Name, ticket.ID, ticket.Subject, agent.Name, agent.Email, signature)

	return Message{
		To:       creator.Email,
		Subject:  "Your Ticket Has Been Assigned - #" + ticket.ID,
		Markdown: body,
	}
}

// TicketAssignedToAgent briefs the agent on a ticket they now own.
func TicketAssignedToAgent(ticket domain.Ticket, creator, agent Recipient) Message {
	body := fmt.Sprintf(`Dear %s,

A new support ticket has been assigned to you.

- **Ticket ID:** %s
- **Subject:** %s
- **Category:** %s
- **Customer:** %s (%s)
- **Created:** %s

**Description:**

%s

Please review and begin working on this ticket.

%s
`,
		agent.Name, ticket.ID, ticket.Subject, categoryLabel(ticket.Category),
		creator.Name, creator.Email, formatTime(ticket.CreatedAt), ticket.Description, signature)

	return Message{
		To:       agent.Email,
		Subject:  "New Ticket Assigned - #" + ticket.ID,
		Markdown: body,
	}
}

func categoryLabel(c domain.TicketCategory) string {
	return strings.ReplaceAll(string(c), "_", " ")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format(timeLayout)
}
