// Package policy is the single place where role and ownership rules live.
package policy

import (
	"context"
	"errors"

	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/repository"
	apperrors "github.com/spec-kit/quickdesk/pkg/util/errorutil"
)

// UserReader loads users to resolve their current role.
type UserReader interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// AccessPolicy answers who may read, reply to and triage tickets.
// Roles are always read from storage, never trusted from the session.
type AccessPolicy struct {
	users UserReader
}

// NewAccessPolicy constructs the policy.
func NewAccessPolicy(users UserReader) *AccessPolicy {
	return &AccessPolicy{users: users}
}

// CanAccessTicket reports whether userID may read ticket.
// Staff see every ticket; everyone else only the tickets they created.
func (p *AccessPolicy) CanAccessTicket(ctx context.Context, ticket *domain.Ticket, userID string) (bool, error) {
	user, err := p.load(ctx, userID)
	if err != nil || user == nil {
		return false, err
	}
	return canAccess(user, ticket), nil
}

// CanReplyToTicket reports whether userID may post to ticket's thread.
// Same rule as CanAccessTicket; assignees are always staff.
func (p *AccessPolicy) CanReplyToTicket(ctx context.Context, ticket *domain.Ticket, userID string) (bool, error) {
	return p.CanAccessTicket(ctx, ticket, userID)
}

// RequireStaff loads userID and fails unless it holds AGENT or ADMIN.
func (p *AccessPolicy) RequireStaff(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	user, err := p.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewUnauthorized("user not found")
	}
	if err := RequireStaffRole(user.Role); err != nil {
		return nil, err
	}
	return user, nil
}

// RequireStaffRole is the role check used when only a role is at hand.
func RequireStaffRole(role domain.Role) error {
	if !role.IsStaff() {
		return apperrors.NewForbidden("access denied: support agents only")
	}
	return nil
}

// RequireIdentity fails with Unauthorized when no caller is bound.
func RequireIdentity(identity *domain.Identity) error {
	if identity == nil || identity.UserID == "" {
		return apperrors.NewUnauthorized("authentication required")
	}
	return nil
}

func (p *AccessPolicy) load(ctx context.Context, userID string) (*domain.User, error) {
	user, err := p.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

func canAccess(user *domain.User, ticket *domain.Ticket) bool {
	if user.Role.IsStaff() {
		return true
	}
	return ticket.CreatorID == user.ID
}
