// Package transaction exposes the transaction lifecycle endpoints. The
// currency route segment selects which per-currency ledger a row lives in.
package transaction

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mahfuzr/hisab/config"
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/dto"
	"github.com/mahfuzr/hisab/pkg/middleware"
	authsvc "github.com/mahfuzr/hisab/pkg/service/auth"
	ledgersvc "github.com/mahfuzr/hisab/pkg/service/ledger"
	"github.com/mahfuzr/hisab/webapi/common"
)

// Routes registers the transaction endpoints.
//
//   - POST /transactions                          : Record a transaction.
//   - GET  /transactions/:currency                : List recent transactions.
//   - PUT  /transactions/:currency/:id            : Edit a transaction.
//   - POST /transactions/:currency/:id/delete     : Soft-delete, reversing its effect.
//   - POST /transactions/:currency/:id/restore    : Restore, re-applying its effect.
func Routes(app *fiber.App, svc *ledgersvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	app.Post("/transactions", middleware.JwtProtected(cfg.Jwt), Create(svc, authSvc))
	app.Get("/transactions/:currency", middleware.JwtProtected(cfg.Jwt), List(svc, authSvc))
	app.Put("/transactions/:currency/:id", middleware.JwtProtected(cfg.Jwt), Edit(svc, authSvc))
	app.Post("/transactions/:currency/:id/delete", middleware.JwtProtected(cfg.Jwt), Delete(svc, authSvc))
	app.Post("/transactions/:currency/:id/restore", middleware.JwtProtected(cfg.Jwt), Restore(svc, authSvc))
}

// Create returns the handler recording a transaction.
func Create(svc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		input, err := common.BindAndValidate[CreateTransactionRequest](c)
		if input == nil {
			return err
		}
		date, err := common.ParseDate(input.Date)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid date", err, fiber.StatusBadRequest)
		}
		t, err := svc.Create(c.UserContext(), userID, dto.TxnCreate{
			AccountID:  input.AccountID,
			Type:       ledger.TxnType(input.Type),
			Date:       date,
			Amount:     input.Amount,
			CategoryID: input.CategoryID,
			Note:       input.Note,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction created", ToTransactionResponse(t))
	}
}

// List returns the handler listing recent transactions for one currency.
func List(svc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		cur, err := common.ParseCurrency(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid currency", err)
		}
		limit := c.QueryInt("limit", 100)
		txns, err := svc.List(c.UserContext(), userID, cur, limit)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		out := make([]TransactionResponse, 0, len(txns))
		for _, t := range txns {
			out = append(out, ToTransactionResponse(t))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", out)
	}
}

// Edit returns the handler patching a transaction.
func Edit(svc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		cur, err := common.ParseCurrency(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid currency", err)
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err, fiber.StatusBadRequest)
		}
		input, err := common.BindAndValidate[UpdateTransactionRequest](c)
		if input == nil {
			return err
		}
		patch := dto.TxnUpdate{
			AccountID:  input.AccountID,
			Amount:     input.Amount,
			CategoryID: input.CategoryID,
			Note:       input.Note,
			IsPending:  input.IsPending,
		}
		if input.Type != nil {
			t := ledger.TxnType(*input.Type)
			patch.Type = &t
		}
		if input.Date != nil {
			date, err := common.ParseDate(*input.Date)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Invalid date", err, fiber.StatusBadRequest)
			}
			patch.Date = &date
		}
		t, err := svc.Edit(c.UserContext(), userID, cur, id, patch)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to edit transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction updated", ToTransactionResponse(t))
	}
}

// Delete returns the handler soft-deleting a transaction.
func Delete(svc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		cur, err := common.ParseCurrency(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid currency", err)
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err, fiber.StatusBadRequest)
		}
		already, err := svc.Delete(c.UserContext(), userID, cur, id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete transaction", err)
		}
		msg := "Transaction deleted"
		if already {
			msg = "Transaction already deleted"
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, msg, nil)
	}
}

// Restore returns the handler restoring a soft-deleted transaction.
func Restore(svc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		cur, err := common.ParseCurrency(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid currency", err)
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction ID", err, fiber.StatusBadRequest)
		}
		already, err := svc.Restore(c.UserContext(), userID, cur, id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to restore transaction", err)
		}
		msg := "Transaction restored"
		if already {
			msg = "Transaction already active"
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, msg, nil)
	}
}
