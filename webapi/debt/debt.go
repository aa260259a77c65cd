// Package debt exposes the debt tracking endpoints.
package debt

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mahfuzr/hisab/config"
	"github.com/mahfuzr/hisab/pkg/currency"
	debtdom "github.com/mahfuzr/hisab/pkg/domain/debt"
	"github.com/mahfuzr/hisab/pkg/dto"
	"github.com/mahfuzr/hisab/pkg/middleware"
	authsvc "github.com/mahfuzr/hisab/pkg/service/auth"
	debtsvc "github.com/mahfuzr/hisab/pkg/service/debt"
	"github.com/mahfuzr/hisab/webapi/common"
)

// Routes registers the debt endpoints.
//
//   - POST /debts                  : Open a debt item.
//   - GET  /debts                  : List the caller's debt items.
//   - GET  /debts/:id/txns         : List an item's action history.
//   - POST /debts/:id/repay        : Apply a repayment.
//   - POST /debts/txns/:id/reverse : Reverse a recorded repayment.
func Routes(app *fiber.App, svc *debtsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	app.Post("/debts", middleware.JwtProtected(cfg.Jwt), Create(svc, authSvc))
	app.Get("/debts", middleware.JwtProtected(cfg.Jwt), List(svc, authSvc))
	app.Get("/debts/:id/txns", middleware.JwtProtected(cfg.Jwt), Txns(svc, authSvc))
	app.Post("/debts/:id/repay", middleware.JwtProtected(cfg.Jwt), Repay(svc, authSvc))
	app.Post("/debts/txns/:id/reverse", middleware.JwtProtected(cfg.Jwt), Reverse(svc, authSvc))
}

// Create returns the handler opening a debt item.
func Create(svc *debtsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		input, err := common.BindAndValidate[CreateDebtRequest](c)
		if input == nil {
			return err
		}
		start, err := common.ParseDate(input.StartDate)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid start date", err, fiber.StatusBadRequest)
		}
		item, err := svc.Create(c.UserContext(), userID, dto.DebtCreate{
			Direction:   debtdom.Direction(input.Direction),
			Currency:    currency.Code(input.Currency),
			RecipientID: input.RecipientID,
			Principal:   input.Principal,
			StartDate:   start,
			Note:        input.Note,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create debt", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Debt created", ToItemResponse(item))
	}
}

// List returns the handler listing the caller's debt items.
func List(svc *debtsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		items, err := svc.List(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list debts", err)
		}
		out := make([]ItemResponse, 0, len(items))
		for _, i := range items {
			out = append(out, ToItemResponse(i))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Debts fetched", out)
	}
}

// Txns returns the handler listing an item's action history.
func Txns(svc *debtsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid debt ID", err, fiber.StatusBadRequest)
		}
		txns, err := svc.Txns(c.UserContext(), userID, id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list debt transactions", err)
		}
		out := make([]TxnResponse, 0, len(txns))
		for _, t := range txns {
			out = append(out, ToTxnResponse(t))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Debt transactions fetched", out)
	}
}

// Repay returns the handler applying a repayment.
func Repay(svc *debtsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid debt ID", err, fiber.StatusBadRequest)
		}
		input, err := common.BindAndValidate[RepayRequest](c)
		if input == nil {
			return err
		}
		date, err := common.ParseDate(input.Date)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid date", err, fiber.StatusBadRequest)
		}
		item, err := svc.Repay(c.UserContext(), userID, id, dto.DebtRepay{
			Date:   date,
			Amount: input.Amount,
			Note:   input.Note,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to repay", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Repayment recorded", ToItemResponse(item))
	}
}

// Reverse returns the handler undoing a recorded repayment.
func Reverse(svc *debtsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err, fiber.StatusBadRequest)
		}
		item, err := svc.ReverseRepayment(c.UserContext(), userID, id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to reverse repayment", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Repayment reversed", ToItemResponse(item))
	}
}
