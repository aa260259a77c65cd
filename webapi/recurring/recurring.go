// Package recurring exposes the recurring-rule endpoints, including the
// on-demand catch-up runs.
package recurring

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mahfuzr/hisab/config"
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	recurringdom "github.com/mahfuzr/hisab/pkg/domain/recurring"
	"github.com/mahfuzr/hisab/pkg/dto"
	"github.com/mahfuzr/hisab/pkg/middleware"
	authsvc "github.com/mahfuzr/hisab/pkg/service/auth"
	recurringsvc "github.com/mahfuzr/hisab/pkg/service/recurring"
	"github.com/mahfuzr/hisab/webapi/common"
)

// Routes registers the recurring-rule endpoints.
//
//   - POST   /recurring          : Create a rule.
//   - GET    /recurring          : List the caller's rules.
//   - PUT    /recurring/:id      : Patch a rule.
//   - DELETE /recurring/:id      : Delete a rule.
//   - POST   /recurring/:id/run  : Catch up one rule now.
//   - POST   /recurring/run      : Catch up all the caller's due rules now.
func Routes(app *fiber.App, svc *recurringsvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	app.Post("/recurring", middleware.JwtProtected(cfg.Jwt), Create(svc, authSvc))
	app.Get("/recurring", middleware.JwtProtected(cfg.Jwt), List(svc, authSvc))
	app.Put("/recurring/:id", middleware.JwtProtected(cfg.Jwt), Update(svc, authSvc))
	app.Delete("/recurring/:id", middleware.JwtProtected(cfg.Jwt), Delete(svc, authSvc))
	app.Post("/recurring/run", middleware.JwtProtected(cfg.Jwt), RunAll(svc, authSvc))
	app.Post("/recurring/:id/run", middleware.JwtProtected(cfg.Jwt), RunOne(svc, authSvc))
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Create returns the handler creating a rule.
func Create(svc *recurringsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		input, err := common.BindAndValidate[CreateRuleRequest](c)
		if input == nil {
			return err
		}
		start, err := common.ParseDate(input.StartDate)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid start date", err, fiber.StatusBadRequest)
		}
		var end *time.Time
		if input.EndDate != nil {
			e, err := common.ParseDate(*input.EndDate)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Invalid end date", err, fiber.StatusBadRequest)
			}
			end = &e
		}
		rule, err := svc.Create(c.UserContext(), userID, dto.RuleCreate{
			AccountID:  input.AccountID,
			Type:       ledger.TxnType(input.Type),
			Amount:     input.Amount,
			CategoryID: input.CategoryID,
			Note:       input.Note,
			Frequency:  recurringdom.Frequency(input.Frequency),
			EveryN:     input.EveryN,
			StartDate:  start,
			EndDate:    end,
			Weekday:    input.Weekday,
			DayOfMonth: input.DayOfMonth,
			Enabled:    true,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create rule", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Rule created", ToRuleResponse(rule))
	}
}

// List returns the handler listing the caller's rules.
func List(svc *recurringsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		rules, err := svc.List(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list rules", err)
		}
		out := make([]RuleResponse, 0, len(rules))
		for _, r := range rules {
			out = append(out, ToRuleResponse(r))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Rules fetched", out)
	}
}

// Update returns the handler patching a rule.
func Update(svc *recurringsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid rule ID", err, fiber.StatusBadRequest)
		}
		input, err := common.BindAndValidate[UpdateRuleRequest](c)
		if input == nil {
			return err
		}
		patch := dto.RuleUpdate{
			AccountID:  input.AccountID,
			Amount:     input.Amount,
			CategoryID: input.CategoryID,
			Note:       input.Note,
			EveryN:     input.EveryN,
			Weekday:    input.Weekday,
			DayOfMonth: input.DayOfMonth,
			Enabled:    input.Enabled,
		}
		if input.Type != nil {
			t := ledger.TxnType(*input.Type)
			patch.Type = &t
		}
		if input.Frequency != nil {
			f := recurringdom.Frequency(*input.Frequency)
			patch.Frequency = &f
		}
		if input.EndDate != nil {
			e, err := common.ParseDate(*input.EndDate)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Invalid end date", err, fiber.StatusBadRequest)
			}
			patch.EndDate = &e
		}
		rule, err := svc.Update(c.UserContext(), userID, id, patch)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to update rule", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Rule updated", ToRuleResponse(rule))
	}
}

// Delete returns the handler removing a rule.
func Delete(svc *recurringsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid rule ID", err, fiber.StatusBadRequest)
		}
		if err := svc.Delete(c.UserContext(), userID, id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete rule", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Rule deleted", nil)
	}
}

// RunOne returns the handler catching up a single rule on demand.
func RunOne(svc *recurringsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid rule ID", err, fiber.StatusBadRequest)
		}
		created, err := svc.RunRuleNow(c.UserContext(), userID, id, today())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to run rule", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Rule run", RunResponse{Created: created})
	}
}

// RunAll returns the handler catching up every due rule for the caller.
func RunAll(svc *recurringsvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := common.AuthUserID(c, authSvc)
		if !ok {
			return nil
		}
		sum, err := svc.RunDueForUser(c.UserContext(), userID, today())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to run rules", err)
		}
		resp := RunResponse{Created: sum.Created, Skipped: sum.Skipped}
		if len(sum.Errors) > 0 {
			resp.Errors = make(map[int64]string, len(sum.Errors))
			for _, e := range sum.Errors {
				resp.Errors[e.RuleID] = e.Err.Error()
			}
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Catch-up finished", resp)
	}
}
