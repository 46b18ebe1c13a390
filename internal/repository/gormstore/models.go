package gormstore

import (
	"time"

	"github.com/spec-kit/quickdesk/internal/domain"
)

type UserModel struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"not null"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:'USER'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string { return "users" }

type TicketModel struct {
	ID            string `gorm:"primaryKey"`
	Subject       string `gorm:"not null"`
	Description   string `gorm:"not null"`
	Category      string `gorm:"not null"`
	Status        string `gorm:"not null;default:'OPEN'"`
	AttachmentURL *string
	Upvotes       int    `gorm:"not null;default:0"`
	Downvotes     int    `gorm:"not null;default:0"`
	ReplyCount    int    `gorm:"not null;default:0"`
	CreatorID     string `gorm:"not null;index"`
	AssigneeID    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (TicketModel) TableName() string { return "tickets" }

type ReplyModel struct {
	ID        string `gorm:"primaryKey"`
	TicketID  string `gorm:"not null;index"`
	AuthorID  string `gorm:"not null"`
	Message   string `gorm:"not null"`
	CreatedAt time.Time
}

func (ReplyModel) TableName() string { return "ticket_replies" }

type VoteModel struct {
	ID        string `gorm:"primaryKey"`
	TicketID  string `gorm:"not null;index:idx_ticket_voter,unique"`
	VoterID   string `gorm:"not null;index:idx_ticket_voter,unique"`
	VoteType  string `gorm:"not null"`
	CreatedAt time.Time
}

func (VoteModel) TableName() string { return "ticket_votes" }

func toUserModel(u *domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m UserModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toTicketModel(t *domain.Ticket) TicketModel {
	return TicketModel{
		ID:            t.ID,
		Subject:       t.Subject,
		Description:   t.Description,
		Category:      string(t.Category),
		Status:        string(t.Status),
		AttachmentURL: t.AttachmentURL,
		Upvotes:       t.Upvotes,
		Downvotes:     t.Downvotes,
		ReplyCount:    t.ReplyCount,
		CreatorID:     t.CreatorID,
		AssigneeID:    t.AssigneeID,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (m TicketModel) toDomain() *domain.Ticket {
	return &domain.Ticket{
		ID:            m.ID,
		Subject:       m.Subject,
		Description:   m.Description,
		Category:      domain.TicketCategory(m.Category),
		Status:        domain.TicketStatus(m.Status),
		AttachmentURL: m.AttachmentURL,
		Upvotes:       m.Upvotes,
		Downvotes:     m.Downvotes,
		ReplyCount:    m.ReplyCount,
		CreatorID:     m.CreatorID,
		AssigneeID:    m.AssigneeID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (m ReplyModel) toDomain() domain.Reply {
	return domain.Reply{
		ID:        m.ID,
		TicketID:  m.TicketID,
		AuthorID:  m.AuthorID,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}

func (m VoteModel) toDomain() *domain.Vote {
	return &domain.Vote{
		ID:        m.ID,
		TicketID:  m.TicketID,
		VoterID:   m.VoterID,
		Type:      domain.VoteType(m.VoteType),
		CreatedAt: m.CreatedAt,
	}
}
