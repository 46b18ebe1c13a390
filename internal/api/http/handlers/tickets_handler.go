package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/quickdesk/internal/api/dto"
	"github.com/spec-kit/quickdesk/internal/auth"
	"github.com/spec-kit/quickdesk/internal/service"
	apperrors "github.com/spec-kit/quickdesk/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints for every role.
type TicketsHandler struct {
	tickets     *service.TicketService
	assignments *service.AssignmentService
	replies     *service.ReplyService
	votes       *service.VoteService
}

// TicketHandlerDependencies bundles the services behind the ticket routes.
type TicketHandlerDependencies struct {
	Tickets     *service.TicketService
	Assignments *service.AssignmentService
	Replies     *service.ReplyService
	Votes       *service.VoteService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(deps TicketHandlerDependencies) *TicketsHandler {
	return &TicketsHandler{
		tickets:     deps.Tickets,
		assignments: deps.Assignments,
		replies:     deps.Replies,
		votes:       deps.Votes,
	}
}

// CreateTicket POST /tickets/save.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	ticket, err := h.tickets.CreateTicket(c.UserContext(), identity, service.TicketCreateInput{
		Subject:       req.Subject,
		Description:   req.Description,
		Category:      req.Category,
		AttachmentURL: req.AttachmentURL,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Ticket created successfully",
		"ticket":  dto.NewTicketResponse(ticket),
	})
}

// ListMyTickets GET /tickets/my.
func (h *TicketsHandler) ListMyTickets(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	query, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	page, err := h.tickets.ListMyTickets(c.UserContext(), identity, query)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketPageResponse(page))
}

// ListAllTickets GET /tickets/all.
func (h *TicketsHandler) ListAllTickets(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	query, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	page, err := h.tickets.ListAllTickets(c.UserContext(), identity, query)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketPageResponse(page))
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	ticket, err := h.tickets.GetTicket(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// UpdateStatus PUT /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	ticket, err := h.assignments.UpdateStatus(c.UserContext(), identity, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Ticket status updated successfully",
		"ticket":  dto.NewTicketResponse(ticket),
	})
}

// AssignTicket PUT /tickets/:id/assign?agentId=.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	agentID := c.Query("agentId")
	if agentID == "" {
		return apperrors.NewValidationError("agentId is required", nil)
	}

	ticket, err := h.assignments.AssignTicket(c.UserContext(), identity, c.Params("id"), agentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Ticket assigned successfully",
		"ticket":  dto.NewTicketResponse(ticket),
	})
}

// AddReply POST /tickets/:id/replies.
func (h *TicketsHandler) AddReply(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	if _, err := h.replies.AddReply(c.UserContext(), identity, c.Params("id"), req.Message); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Reply added successfully"})
}

// ListReplies GET /tickets/:id/replies.
func (h *TicketsHandler) ListReplies(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	replies, err := h.replies.ListReplies(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewReplyResponses(replies))
}

// Vote POST /tickets/:id/vote.
func (h *TicketsHandler) Vote(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	var req dto.VoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	tally, err := h.votes.CastVote(c.UserContext(), identity, c.Params("id"), req.VoteType)
	if err != nil {
		return err
	}
	return c.JSON(dto.VoteResponse{
		Message:   "Vote recorded successfully",
		Upvotes:   tally.Upvotes,
		Downvotes: tally.Downvotes,
		MyVote:    tally.Current,
	})
}

func parseTicketQuery(c *fiber.Ctx) (service.TicketQuery, error) {
	var q dto.TicketListQuery
	if err := c.QueryParser(&q); err != nil {
		return service.TicketQuery{}, apperrors.NewValidationError("invalid query parameters", nil)
	}
	if err := dto.Validate(&q); err != nil {
		return service.TicketQuery{}, err
	}
	return q.ToServiceQuery(), nil
}
