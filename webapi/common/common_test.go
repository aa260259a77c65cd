package common_test

import (
	"encoding/json"
	"io"
	"log"
	"log/slog"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahfuzr/hisab/pkg/currency"
	"github.com/mahfuzr/hisab/pkg/domain/debt"
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/domain/recurring"
	"github.com/mahfuzr/hisab/pkg/domain/user"
	"github.com/mahfuzr/hisab/webapi/common"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)

	exitVal := m.Run()
	os.Exit(exitVal)
}

func TestErrorToStatusCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
	}{
		{ledger.ErrAccountNotFound, fiber.StatusNotFound},
		{ledger.ErrTransactionNotFound, fiber.StatusNotFound},
		{ledger.ErrRecipientNotFound, fiber.StatusNotFound},
		{recurring.ErrRuleNotFound, fiber.StatusNotFound},
		{debt.ErrItemNotFound, fiber.StatusNotFound},
		{user.ErrUserNotFound, fiber.StatusNotFound},
		{ledger.ErrInsufficientFunds, fiber.StatusUnprocessableEntity},
		{ledger.ErrInsufficientCreditLimit, fiber.StatusUnprocessableEntity},
		{ledger.ErrCurrencyMismatch, fiber.StatusUnprocessableEntity},
		{ledger.ErrAmountExceedsPending, fiber.StatusUnprocessableEntity},
		{ledger.ErrNoPendingTransactions, fiber.StatusUnprocessableEntity},
		{ledger.ErrAmountMustBePositive, fiber.StatusBadRequest},
		{ledger.ErrAccountInactive, fiber.StatusBadRequest},
		{ledger.ErrCreditAccountNotAllowed, fiber.StatusBadRequest},
		{ledger.ErrNotCreditAccount, fiber.StatusBadRequest},
		{ledger.ErrCreditLimitNotSet, fiber.StatusBadRequest},
		{debt.ErrNotRepayment, fiber.StatusBadRequest},
		{currency.ErrUnsupportedCurrency, fiber.StatusBadRequest},
		{user.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{user.ErrEmailTaken, fiber.StatusConflict},
		{io.ErrUnexpectedEOF, fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, common.ErrorToStatusCode(tc.err), tc.err.Error())
	}
}

func TestProblemDetailsJSON(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/domain", func(c *fiber.Ctx) error {
		return common.ProblemDetailsJSON(c, "Failed", ledger.ErrInsufficientFunds)
	})
	app.Get("/override", func(c *fiber.Ctx) error {
		return common.ProblemDetailsJSON(c, "Failed", ledger.ErrInsufficientFunds,
			fiber.StatusTeapot, "custom detail")
	})

	t.Run("status mapped from the domain error", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/domain", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "application/problem+json", resp.Header.Get(fiber.HeaderContentType))

		var pd common.ProblemDetails
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
		assert.Equal(t, "Failed", pd.Title)
		assert.Equal(t, ledger.ErrInsufficientFunds.Error(), pd.Detail)
		assert.Equal(t, "/domain", pd.Instance)
	})

	t.Run("explicit details override status and detail", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/override", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

		var pd common.ProblemDetails
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
		assert.Equal(t, "custom detail", pd.Detail)
	})
}

func TestBindAndValidate(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name" validate:"required,min=2"`
	}

	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[payload](c)
		if input == nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "ok", input)
	})

	post := func(body string) int {
		t.Helper()
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, post(`{"name":"ok"}`))
	assert.Equal(t, fiber.StatusBadRequest, post(`{"name":"x"}`), "validation failure")
	assert.Equal(t, fiber.StatusBadRequest, post(`{not json`), "parse failure")
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := common.ParseDate("2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = common.ParseDate("15/06/2025")
	assert.Error(t, err)
}

func TestParseCurrency(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/:currency", func(c *fiber.Ctx) error {
		cur, err := common.ParseCurrency(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Bad currency", err)
		}
		return c.SendString(string(cur))
	})

	t.Run("case insensitive", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/krw", nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "KRW", string(body))
	})

	t.Run("unsupported rejected", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/USD", nil))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
