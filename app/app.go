// Package app builds the services and wires them into the Fiber application.
package app

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mahfuzr/hisab/config"
	"github.com/mahfuzr/hisab/pkg/repository"
	accountsvc "github.com/mahfuzr/hisab/pkg/service/account"
	authsvc "github.com/mahfuzr/hisab/pkg/service/auth"
	debtsvc "github.com/mahfuzr/hisab/pkg/service/debt"
	ledgersvc "github.com/mahfuzr/hisab/pkg/service/ledger"
	recurringsvc "github.com/mahfuzr/hisab/pkg/service/recurring"
	settlementsvc "github.com/mahfuzr/hisab/pkg/service/settlement"
	transfersvc "github.com/mahfuzr/hisab/pkg/service/transfer"
	"github.com/mahfuzr/hisab/webapi/account"
	"github.com/mahfuzr/hisab/webapi/auth"
	"github.com/mahfuzr/hisab/webapi/common"
	"github.com/mahfuzr/hisab/webapi/debt"
	"github.com/mahfuzr/hisab/webapi/recipient"
	"github.com/mahfuzr/hisab/webapi/recurring"
	"github.com/mahfuzr/hisab/webapi/settlement"
	"github.com/mahfuzr/hisab/webapi/transaction"
	"github.com/mahfuzr/hisab/webapi/transfer"
)

// Services bundles every use-case service the app exposes. The recurring
// service is shared with the background sweeper.
type Services struct {
	Auth       *authsvc.Service
	Account    *accountsvc.Service
	Ledger     *ledgersvc.Service
	Transfer   *transfersvc.Service
	Settlement *settlementsvc.Service
	Recurring  *recurringsvc.Service
	Debt       *debtsvc.Service
}

// BuildServices constructs all services over one unit of work.
func BuildServices(uow repository.UnitOfWork, cfg *config.App, logger *slog.Logger) *Services {
	return &Services{
		Auth:       authsvc.New(uow, cfg.Jwt, logger),
		Account:    accountsvc.New(uow, logger),
		Ledger:     ledgersvc.New(uow, cfg.Ledger, logger),
		Transfer:   transfersvc.New(uow, logger),
		Settlement: settlementsvc.New(uow, logger),
		Recurring:  recurringsvc.New(uow, logger),
		Debt:       debtsvc.New(uow, logger),
	}
}

// New wires the services into a Fiber app with rate limiting, panic recovery
// and every resource's routes registered.
func New(svcs *Services, cfg *config.App) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return common.ProblemDetailsJSON(c, fe.Message, err, fe.Code)
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			// Prefer proxy headers so all clients behind one LB are not
			// throttled as a single caller.
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(c, "Too Many Requests",
				errors.New("rate limit exceeded"), fiber.StatusTooManyRequests)
		},
	}))
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("App is working! 🚀")
	})

	auth.Routes(app, svcs.Auth)
	account.Routes(app, svcs.Account, svcs.Auth, cfg)
	recipient.Routes(app, svcs.Account, svcs.Auth, cfg)
	transaction.Routes(app, svcs.Ledger, svcs.Auth, cfg)
	transfer.Routes(app, svcs.Transfer, svcs.Auth, cfg)
	settlement.Routes(app, svcs.Settlement, svcs.Ledger, svcs.Auth, cfg)
	recurring.Routes(app, svcs.Recurring, svcs.Auth, cfg)
	debt.Routes(app, svcs.Debt, svcs.Auth, cfg)

	return app
}
