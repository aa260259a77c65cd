package common

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	authsvc "github.com/mahfuzr/hisab/pkg/service/auth"
)

// AuthUserID extracts the authenticated user id from the verified token the
// JWT middleware placed in c.Locals. On failure the problem response has
// already been written and ok is false.
func AuthUserID(c *fiber.Ctx, authSvc *authsvc.Service) (int64, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		_ = ProblemDetailsJSON(c, "Unauthorized", nil, "missing user context", fiber.StatusUnauthorized)
		return 0, false
	}
	userID, err := authSvc.CurrentUserID(token)
	if err != nil {
		_ = ProblemDetailsJSON(c, "Invalid user ID", err, fiber.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}
