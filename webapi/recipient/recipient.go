// Package recipient exposes the transfer-counterparty endpoints.
package recipient

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mahfuzr/hisab/config"
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/middleware"
	accountsvc "github.com/mahfuzr/hisab/pkg/service/account"
	authsvc "github.com/mahfuzr/hisab/pkg/service/auth"
	"github.com/mahfuzr/hisab/webapi/common"
)

// CreateRecipientRequest stores a transfer counterparty.
type CreateRecipientRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=100"`
	IsFavorite bool   `json:"is_favorite"`
}

// RecipientResponse is the public view of a recipient.
type RecipientResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	IsFavorite bool   `json:"is_favorite"`
}

func toResponse(r *ledger.Recipient) RecipientResponse {
	return RecipientResponse{ID: r.ID, Name: r.Name, IsFavorite: r.IsFavorite}
}

// Routes registers the recipient endpoints.
//
//   - POST /recipients : Store a counterparty.
//   - GET  /recipients : List the caller's counterparties.
func Routes(app *fiber.App, svc *accountsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	app.Post("/recipients", middleware.JwtProtected(cfg.Jwt), Create(svc, authSvc))
	app.Get("/recipients", middleware.JwtProtected(cfg.Jwt), List(svc, authSvc))
}

// Create returns the handler storing a counterparty.
func Create(svc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		input, err := common.BindAndValidate[CreateRecipientRequest](c)
		if input == nil {
			return err
		}
		r, err := svc.CreateRecipient(c.UserContext(), userID, input.Name, input.IsFavorite)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create recipient", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Recipient created", toResponse(r))
	}
}

// List returns the handler listing the caller's counterparties.
func List(svc *accountsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		recipients, err := svc.ListRecipients(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list recipients", err)
		}
		out := make([]RecipientResponse, 0, len(recipients))
		for _, r := range recipients {
			out = append(out, toResponse(r))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Recipients fetched", out)
	}
}
