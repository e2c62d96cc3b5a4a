package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-service/internal/domain"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

// RequireRole admits callers holding one of allowed. ADMIN is always admitted.
func RequireRole(allowed ...domain.SubjectRole) fiber.Handler {
	allowedSet := make(map[domain.SubjectRole]struct{}, len(allowed)+1)
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}
	allowedSet[domain.SubjectRoleAdmin] = struct{}{}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// CanListen reports whether principal may receive live events for role.
func CanListen(principal *Principal, role domain.StaffRole) bool {
	if principal == nil {
		return false
	}
	if principal.Role == domain.SubjectRoleAdmin {
		return true
	}
	return string(principal.Role) == string(role)
}
