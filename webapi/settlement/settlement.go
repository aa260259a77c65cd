// Package settlement exposes the credit-card settlement endpoints.
package settlement

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mahfuzr/hisab/config"
	"github.com/mahfuzr/hisab/pkg/dto"
	"github.com/mahfuzr/hisab/pkg/middleware"
	authsvc "github.com/mahfuzr/hisab/pkg/service/auth"
	ledgersvc "github.com/mahfuzr/hisab/pkg/service/ledger"
	settlementsvc "github.com/mahfuzr/hisab/pkg/service/settlement"
	"github.com/mahfuzr/hisab/webapi/common"
)

// Routes registers the settlement endpoints.
//
//   - POST /settlements                        : Settle a card.
//   - GET  /settlements/:currency/:id/pending  : Pending total for a card.
func Routes(app *fiber.App, svc *settlementsvc.Service, ledgerSvc *ledgersvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	app.Post("/settlements", middleware.JwtProtected(cfg.Jwt), Settle(svc, authSvc))
	app.Get("/settlements/:currency/:id/pending", middleware.JwtProtected(cfg.Jwt), PendingTotal(ledgerSvc, authSvc))
}

// Settle returns the handler paying down a card's pending transactions.
func Settle(svc *settlementsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		input, err := common.BindAndValidate[SettleRequest](c)
		if input == nil {
			return err
		}
		res, err := svc.Settle(c.UserContext(), userID, dto.Settlement{
			CardAccountID:    input.CardAccountID,
			FundingAccountID: input.FundingAccountID,
			Amount:           input.Amount,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to settle", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Settlement recorded", SettleResponse{
			TransferGroupID: res.GroupID,
			FullyPaid:       res.FullyPaid,
			Split:           res.Split,
			FullySettled:    res.FullySettled,
		})
	}
}

// PendingTotal returns the handler reporting a card's pending total.
func PendingTotal(ledgerSvc *ledgersvc.Service, authSvc *authsvc.Service) fiber.Handler {
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
			return common.ProblemDetailsJSON(c, "Invalid account ID", err, fiber.StatusBadRequest)
		}
		total, err := ledgerSvc.PendingTotal(c.UserContext(), userID, cur, id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to fetch pending total", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Pending total fetched",
			fiber.Map{"pending_total": total})
	}
}
