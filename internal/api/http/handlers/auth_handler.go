package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/quickdesk/internal/api/dto"
	"github.com/spec-kit/quickdesk/internal/auth"
	"github.com/spec-kit/quickdesk/internal/service"
	apperrors "github.com/spec-kit/quickdesk/pkg/util/errorutil"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	users        *service.UserService
	auth         *service.AuthService
	middleware   *auth.AuthMiddleware
	cookieSecure bool
}

// NewAuthHandler constructs handler.
func NewAuthHandler(users *service.UserService, authService *service.AuthService, middleware *auth.AuthMiddleware, cookieSecure bool) *AuthHandler {
	return &AuthHandler{users: users, auth: authService, middleware: middleware, cookieSecure: cookieSecure}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    dto.NewUserResponse(user),
	})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.middleware.CookieName(),
		Value:    result.Token,
		Path:     "/",
		Expires:  result.Session.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(dto.LoginResponse{
		Message:   "Login successful",
		User:      dto.NewUserResponse(result.User),
		SessionID: result.Session.ID,
		Token:     result.Token,
		ExpiresAt: result.Session.ExpiresAt,
	})
}

// Logout POST /auth/logout. Works without a live session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sessionID := h.auth.SessionIDFromToken(h.middleware.TokenFromRequest(c))
	if err := h.auth.Logout(c.UserContext(), sessionID); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.middleware.CookieName(),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"message": "Logout successful"})
}

// CurrentUser GET /auth/current-user.
func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	user, err := h.auth.CurrentUser(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}
