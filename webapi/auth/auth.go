// Package auth exposes registration and login endpoints.
package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mahfuzr/hisab/pkg/dto"
	authsvc "github.com/mahfuzr/hisab/pkg/service/auth"
	"github.com/mahfuzr/hisab/webapi/common"
)

// Routes registers the public auth endpoints.
//
//   - POST /auth/register : Create a new user.
//   - POST /auth/login    : Exchange credentials for a JWT.
func Routes(app *fiber.App, authSvc *authsvc.Service) {
	app.Post("/auth/register", Register(authSvc))
	app.Post("/auth/login", Login(authSvc))
}

// Register returns the handler creating a new user.
func Register(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterRequest](c)
		if input == nil {
			return err
		}
		u, err := authSvc.Register(c.UserContext(), dto.UserCreate{
			Email:    input.Email,
			Name:     input.Name,
			Password: input.Password,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to register", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "User registered", UserResponse{
			ID:    u.ID,
			Email: u.Email,
			Name:  u.Name,
		})
	}
}

// Login returns the handler exchanging credentials for a JWT.
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginRequest](c)
		if input == nil {
			return err
		}
		token, err := authSvc.Login(c.UserContext(), input.Email, input.Password)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Login failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Login successful", fiber.Map{"token": token})
	}
}
