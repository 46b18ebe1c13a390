package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/quickdesk/internal/policy"
)

// RequireStaff rejects callers who do not currently hold AGENT or ADMIN.
// The role is loaded through the policy, so promotions and demotions apply
// to sessions that are already open.
func RequireStaff(access *policy.AccessPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, _ := IdentityFromContext(c)
		if err := policy.RequireIdentity(identity); err != nil {
			return err
		}
		if _, err := access.RequireStaff(c.UserContext(), identity.UserID); err != nil {
			return err
		}
		return c.Next()
	}
}
