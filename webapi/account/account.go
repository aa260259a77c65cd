// Package account exposes the account CRUD and correction endpoints.
package account

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mahfuzr/hisab/config"
	"github.com/mahfuzr/hisab/pkg/currency"
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/dto"
	"github.com/mahfuzr/hisab/pkg/middleware"
	accountsvc "github.com/mahfuzr/hisab/pkg/service/account"
	authsvc "github.com/mahfuzr/hisab/pkg/service/auth"
	"github.com/mahfuzr/hisab/webapi/common"
)

// Routes registers the account endpoints.
//
//   - POST /accounts              : Create an account.
//   - GET  /accounts              : List the caller's accounts.
//   - PUT  /accounts/:id          : Patch name, active flag, display order.
//   - POST /accounts/:id/limit    : Replace a credit account's available limit.
//   - POST /accounts/:id/balance  : Overwrite a non-credit account's balance.
func Routes(app *fiber.App, svc *accountsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	app.Post("/accounts", middleware.JwtProtected(cfg.Jwt), Create(svc, authSvc))
	app.Get("/accounts", middleware.JwtProtected(cfg.Jwt), List(svc, authSvc))
	app.Put("/accounts/:id", middleware.JwtProtected(cfg.Jwt), Update(svc, authSvc))
	app.Post("/accounts/:id/limit", middleware.JwtProtected(cfg.Jwt), SetLimit(svc, authSvc))
	app.Post("/accounts/:id/balance", middleware.JwtProtected(cfg.Jwt), SetBalance(svc, authSvc))
}

// Create returns the handler creating an account.
func Create(svc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err
		}
		a, err := svc.Create(c.UserContext(), userID, dto.AccountCreate{
			Name:         input.Name,
			Currency:     currency.Code(input.Currency),
			Kind:         ledger.Kind(input.Kind),
			Balance:      input.Balance,
			CreditLimit:  input.CreditLimit,
			DisplayOrder: input.DisplayOrder,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", ToAccountResponse(a))
	}
}

// List returns the handler listing the caller's accounts.
func List(svc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		accounts, err := svc.List(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
		}
		out := make([]AccountResponse, 0, len(accounts))
		for _, a := range accounts {
			out = append(out, ToAccountResponse(a))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", out)
	}
}

// Update returns the handler patching account reference fields.
func Update(svc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err, fiber.StatusBadRequest)
		}
		input, err := common.BindAndValidate[UpdateAccountRequest](c)
		if input == nil {
			return err
		}
		a, err := svc.Update(c.UserContext(), userID, id, dto.AccountUpdate{
			Name:         input.Name,
			IsActive:     input.IsActive,
			DisplayOrder: input.DisplayOrder,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update account", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account updated", ToAccountResponse(a))
	}
}

// SetLimit returns the handler replacing a credit account's available limit.
func SetLimit(svc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err, fiber.StatusBadRequest)
		}
		input, err := common.BindAndValidate[SetLimitRequest](c)
		if input == nil {
			return err
		}
		a, err := svc.SetLimit(c.UserContext(), userID, id, input.Limit)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to set limit", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Limit set", ToAccountResponse(a))
	}
}

// SetBalance returns the handler overwriting a non-credit account's balance.
func SetBalance(svc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid account ID", err, fiber.StatusBadRequest)
		}
		input, err := common.BindAndValidate[SetBalanceRequest](c)
		if input == nil {
			return err
		}
		a, err := svc.SetBalanceExact(c.UserContext(), userID, id, input.Balance)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to set balance", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance set", ToAccountResponse(a))
	}
}
