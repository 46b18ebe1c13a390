package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/session"
	apperrors "github.com/spec-kit/quickdesk/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// AuthMiddleware resolves the session token carried by a request into an
// Identity.
type AuthMiddleware struct {
	tokens     *TokenManager
	sessions   session.Store
	cookieName string
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, sessions session.Store, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions, cookieName: cookieName}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	identity, err := m.Identify(c)
	if err != nil {
		return err
	}
	c.Locals(identityKey, identity)
	return c.Next()
}

// Identify resolves the caller without rejecting the request on its own.
func (m *AuthMiddleware) Identify(c *fiber.Ctx) (*domain.Identity, error) {
	raw := m.TokenFromRequest(c)
	if raw == "" {
		return nil, apperrors.NewUnauthorized("authentication required")
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid session token")
	}

	sess, err := m.sessions.Get(c.UserContext(), claims.SessionID())
	if errors.Is(err, session.ErrNotFound) {
		return nil, apperrors.NewUnauthorized("session expired")
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if sess.UserID != claims.Subject {
		return nil, apperrors.NewUnauthorized("invalid session token")
	}
	return sess.Identity(), nil
}

// TokenFromRequest reads the session cookie, falling back to a bearer header.
func (m *AuthMiddleware) TokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies(m.cookieName); token != "" {
		return token
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// CookieName is the cookie carrying the session token.
func (m *AuthMiddleware) CookieName() string {
	return m.cookieName
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(*domain.Identity)
	return identity, ok && identity != nil
}
