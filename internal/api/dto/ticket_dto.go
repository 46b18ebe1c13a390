package dto

import (
	"time"

	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/service"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject       string                `json:"subject" validate:"required,max=200"`
	Description   string                `json:"description" validate:"required,max=5000"`
	Category      domain.TicketCategory `json:"category" validate:"required,oneof=GENERAL TECHNICAL BILLING ACCOUNT FEATURE_REQUEST BUG_REPORT OTHER"`
	AttachmentURL *string               `json:"attachmentUrl" validate:"omitempty,max=500"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status" validate:"required,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
}

// ReplyRequest payload.
type ReplyRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// VoteRequest payload.
type VoteRequest struct {
	VoteType domain.VoteType `json:"voteType" validate:"required,oneof=UPVOTE DOWNVOTE"`
}

// TicketListQuery captures query string filters for listings.
type TicketListQuery struct {
	Status        string `query:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	Category      string `query:"category" validate:"omitempty,oneof=GENERAL TECHNICAL BILLING ACCOUNT FEATURE_REQUEST BUG_REPORT OTHER"`
	Search        string `query:"search"`
	SortBy        string `query:"sortBy"`
	SortDirection string `query:"sortDirection"`
	Page          int    `query:"page" validate:"gte=0"`
	Size          int    `query:"size" validate:"gte=0"`
}

// ToServiceQuery converts the raw query to service input.
func (q TicketListQuery) ToServiceQuery() service.TicketQuery {
	out := service.TicketQuery{
		SortBy:        q.SortBy,
		SortDirection: q.SortDirection,
		Page:          q.Page,
		Size:          q.Size,
	}
	if q.Status != "" {
		status := domain.TicketStatus(q.Status)
		out.Status = &status
	}
	if q.Category != "" {
		category := domain.TicketCategory(q.Category)
		out.Category = &category
	}
	if q.Search != "" {
		search := q.Search
		out.Search = &search
	}
	return out
}

// TicketResponse is the public view of a ticket.
type TicketResponse struct {
	TicketID       string                `json:"ticketId"`
	Subject        string                `json:"subject"`
	Description    string                `json:"description"`
	Category       domain.TicketCategory `json:"category"`
	Status         domain.TicketStatus   `json:"status"`
	AttachmentURL  *string               `json:"attachmentUrl"`
	Upvotes        int                   `json:"upvotes"`
	Downvotes      int                   `json:"downvotes"`
	ReplyCount     int                   `json:"replyCount"`
	CreatedByID    string                `json:"createdById"`
	CreatedByName  string                `json:"createdByName"`
	AssignedToID   *string               `json:"assignedToId"`
	AssignedToName *string               `json:"assignedToName"`
	CreateTime     time.Time             `json:"createTime"`
	UpdateTime     time.Time             `json:"updateTime"`
}

// TicketPageResponse wraps one listing page.
type TicketPageResponse struct {
	Content       []TicketResponse `json:"content"`
	Page          int              `json:"page"`
	Size          int              `json:"size"`
	TotalElements int64            `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
}

// ReplyResponse is one message in a thread.
type ReplyResponse struct {
	ReplyID    string    `json:"replyId"`
	TicketID   string    `json:"ticketId"`
	Message    string    `json:"message"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	CreateTime time.Time `json:"createTime"`
}

// VoteResponse reports tallies after a vote.
type VoteResponse struct {
	Message   string           `json:"message"`
	Upvotes   int              `json:"upvotes"`
	Downvotes int              `json:"downvotes"`
	MyVote    *domain.VoteType `json:"myVote"`
}

// NewTicketResponse maps an enriched ticket.
func NewTicketResponse(v *service.TicketView) TicketResponse {
	return TicketResponse{
		TicketID:       v.ID,
		Subject:        v.Subject,
		Description:    v.Description,
		Category:       v.Category,
		Status:         v.Status,
		AttachmentURL:  v.AttachmentURL,
		Upvotes:        v.Upvotes,
		Downvotes:      v.Downvotes,
		ReplyCount:     v.ReplyCount,
		CreatedByID:    v.CreatorID,
		CreatedByName:  v.CreatorName,
		AssignedToID:   v.AssigneeID,
		AssignedToName: v.AssigneeName,
		CreateTime:     v.CreatedAt,
		UpdateTime:     v.UpdatedAt,
	}
}

// NewTicketPageResponse maps a listing page.
func NewTicketPageResponse(p *service.TicketPage) TicketPageResponse {
	content := make([]TicketResponse, 0, len(p.Content))
	for i := range p.Content {
		content = append(content, NewTicketResponse(&p.Content[i]))
	}
	return TicketPageResponse{
		Content:       content,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}

// NewReplyResponses maps a thread.
func NewReplyResponses(replies []service.ReplyView) []ReplyResponse {
	out := make([]ReplyResponse, 0, len(replies))
	for _, r := range replies {
		out = append(out, ReplyResponse{
			ReplyID:    r.ID,
			TicketID:   r.TicketID,
			Message:    r.Message,
			AuthorID:   r.AuthorID,
			AuthorName: r.AuthorName,
			CreateTime: r.CreatedAt,
		})
	}
	return out
}
