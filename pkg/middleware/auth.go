// Package middleware provides the JWT route protection used by every
// authenticated endpoint.
package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"

	"github.com/mahfuzr/hisab/config"
	"github.com/mahfuzr/hisab/webapi/common"
)

// JwtProtected verifies the bearer token and stores the parsed token in
// c.Locals("user") for handlers to read.
func JwtProtected(cfg config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return common.ProblemDetailsJSON(c, "Missing or malformed JWT", err, fiber.StatusBadRequest)
	}
	return common.ProblemDetailsJSON(c, "Invalid or expired JWT", err, fiber.StatusUnauthorized)
}
