package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/quickdesk/internal/config"
	"github.com/spec-kit/quickdesk/internal/domain"
)

func sampleTicket() domain.Ticket {
	created := time.Date(2026, time.March, 4, 9, 30, 0, 0, time.UTC)
	return domain.Ticket{
		ID:          "t-1",
		Subject:     "VPN drops",
		Description: "Connection resets every hour",
		Category:    domain.CategoryFeatureRequest,
		Status:      domain.TicketStatusOpen,
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Hour),
	}
}

func TestRendererProducesSanitizedHTML(t *testing.T) {
	out, err := NewRenderer().Render("**bold**\n\n<script>alert(1)</script>")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestTicketCreatedTemplate(t *testing.T) {
	msg := TicketCreated(sampleTicket(), Recipient{Name: "Alice", Email: "alice@example.com"})
	assert.Equal(t, "alice@example.com", msg.To)
	assert.Equal(t, "Ticket Created Successfully - #t-1", msg.Subject)
	assert.Contains(t, msg.Markdown, "Dear Alice")
	assert.Contains(t, msg.Markdown, "FEATURE REQUEST")
	assert.Contains(t, msg.Markdown, "Mar 04, 2026 at 09:30")
}

func TestTicketStatusChangedTemplate(t *testing.T) {
	ticket := sampleTicket()
	creator := Recipient{Name: "Alice", Email: "alice@example.com"}

	unassigned := TicketStatusChanged(ticket, domain.TicketStatusOpen, domain.TicketStatusResolved, creator, nil)
	assert.Contains(t, unassigned.Markdown, "OPEN → RESOLVED")
	assert.Contains(t, unassigned.Markdown, "Not yet assigned to an agent")

	assigned := TicketStatusChanged(ticket, domain.TicketStatusOpen, domain.TicketStatusResolved, creator, &Recipient{Name: "Bob"})
	assert.Contains(t, assigned.Markdown, "Assigned Agent: Bob")
}

func TestTicketAssignedTemplates(t *testing.T) {
	ticket := sampleTicket()
	creator := Recipient{Name: "Alice", Email: "alice@example.com"}
	agent := Recipient{Name: "Bob", Email: "bob@example.com"}

	toCreator := TicketAssignedToCreator(ticket, creator, agent)
	assert.Equal(t, "alice@example.com", toCreator.To)
	assert.Contains(t, toCreator.Markdown, "bob@example.com")

	toAgent := TicketAssignedToAgent(ticket, creator, agent)
	assert.Equal(t, "bob@example.com", toAgent.To)
	assert.Contains(t, toAgent.Markdown, "Connection resets every hour")
	assert.True(t, strings.HasPrefix(toAgent.Subject, "New Ticket Assigned"))
}

func TestComposeBuildsAlternativeBodies(t *testing.T) {
	cfg := config.MailConfig{Enabled: true, Host: "localhost", Port: 2525, From: "noreply@quickdesk.local", FromName: "Quick Desk Support"}
	mailer := NewSMTPMailer(cfg, NewRenderer(), zap.NewNop())

	email, err := mailer.compose(Message{To: "alice@example.com", Subject: "Hi", Markdown: "**hello**"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com"}, email.GetHeader("To"))
	assert.Equal(t, []string{"Hi"}, email.GetHeader("Subject"))
}

func TestDisabledMailerSkipsDelivery(t *testing.T) {
	mailer := NewMailer(config.MailConfig{Enabled: false}, zap.NewNop())
	assert.NoError(t, mailer.Send(context.Background(), Message{To: "x@example.com"}))
}
