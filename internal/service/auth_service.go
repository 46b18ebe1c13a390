package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/quickdesk/internal/auth"
	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/policy"
	"github.com/spec-kit/quickdesk/internal/session"
	apperrors "github.com/spec-kit/quickdesk/pkg/util/errorutil"
)

// AuthService coordinates login sessions.
type AuthService struct {
	users    *UserService
	sessions session.Store
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Users    *UserService
	Sessions session.Store
	Tokens   *auth.TokenManager
	Logger   *zap.Logger
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	User    *domain.User
	Session *domain.Session
	Token   string
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:    deps.Users,
		sessions: deps.Sessions,
		tokens:   deps.Tokens,
		logger:   deps.Logger,
	}
}

// Login authenticates and opens a session. Older sessions beyond the
// per-user limit are revoked by the session store.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	token, err := s.tokens.GenerateToken(sess)
	if err != nil {
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("session_id", sess.ID))
	return &LoginResult{User: user, Session: sess, Token: token}, nil
}

// Logout revokes the session. Missing sessions are not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.NewInternalError(err)
	}
	if sessionID != "" {
		s.logger.Info("user logged out", zap.String("session_id", sessionID))
	}
	return nil
}

// SessionIDFromToken extracts the session a token refers to without
// requiring it to still be live.
func (s *AuthService) SessionIDFromToken(token string) string {
	if token == "" {
		return ""
	}
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return ""
	}
	return claims.SessionID()
}

// CurrentUser loads the account behind identity.
func (s *AuthService) CurrentUser(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	if err := policy.RequireIdentity(identity); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, identity.UserID)
}
