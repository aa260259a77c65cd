// Package transfer exposes the domestic and international transfer endpoints.
package transfer

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mahfuzr/hisab/config"
	"github.com/mahfuzr/hisab/pkg/dto"
	"github.com/mahfuzr/hisab/pkg/middleware"
	authsvc "github.com/mahfuzr/hisab/pkg/service/auth"
	transfersvc "github.com/mahfuzr/hisab/pkg/service/transfer"
	"github.com/mahfuzr/hisab/webapi/common"
)

// Routes registers the transfer endpoints.
//
//   - POST /transfers/domestic      : Move money between same-currency accounts.
//   - POST /transfers/international : Send KRW, receive BDT.
func Routes(app *fiber.App, svc *transfersvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	app.Post("/transfers/domestic", middleware.JwtProtected(cfg.Jwt), Domestic(svc, authSvc))
	app.Post("/transfers/international", middleware.JwtProtected(cfg.Jwt), International(svc, authSvc))
}

// Domestic returns the handler for same-currency transfers.
func Domestic(svc *transfersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		input, err := common.BindAndValidate[DomesticTransferRequest](c)
		if input == nil {
			return err
		}
		date, err := common.ParseDate(input.Date)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid date", err, fiber.StatusBadRequest)
		}
		groupID, err := svc.Domestic(c.UserContext(), userID, dto.DomesticTransfer{
			FromAccountID: input.FromAccountID,
			ToAccountID:   input.ToAccountID,
			Direction:     input.Direction,
			Date:          date,
			Amount:        input.Amount,
			RecipientID:   input.RecipientID,
			RecipientName: input.RecipientName,
			Note:          input.Note,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to transfer", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transfer recorded",
			fiber.Map{"transfer_group_id": groupID})
	}
}

// International returns the handler for KRW to BDT transfers.
func International(svc *transfersvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		input, err := common.BindAndValidate[InternationalTransferRequest](c)
		if input == nil {
			return err
		}
		date, err := common.ParseDate(input.Date)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid date", err, fiber.StatusBadRequest)
		}
		groupID, err := svc.International(c.UserContext(), userID, dto.InternationalTransfer{
			FromAccountID:   input.FromAccountID,
			ToAccountID:     input.ToAccountID,
			RecipientIsSelf: input.RecipientIsSelf,
			Date:            date,
			AmountSent:      input.AmountSent,
			AmountReceived:  input.AmountReceived,
			RecipientID:     input.RecipientID,
			RecipientName:   input.RecipientName,
			ServiceName:     input.ServiceName,
			Note:            input.Note,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to transfer", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transfer recorded",
			fiber.Map{"transfer_group_id": groupID})
	}
}
