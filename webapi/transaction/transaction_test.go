package transaction_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahfuzr/hisab/app"
	"github.com/mahfuzr/hisab/config"
	"github.com/mahfuzr/hisab/pkg/currency"
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/service/servicetest"
	"github.com/mahfuzr/hisab/webapi/transaction"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)

	exitVal := m.Run()
	os.Exit(exitVal)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// setup builds the full Fiber app over an in-memory store, registers a user
// and returns a bearer token for it.
func setup(t *testing.T) (*fiber.App, *servicetest.FakeUoW, string) {
	t.Helper()
	uow := servicetest.NewFakeUoW()
	cfg := &config.App{
		Jwt:       config.Jwt{Secret: "test-secret", Expiry: time.Hour},
		RateLimit: config.RateLimit{MaxRequests: 10000, Window: time.Minute},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fiberApp := app.New(app.BuildServices(uow, cfg, logger), cfg)

	body := `{"email":"mahfuz@example.com","name":"Mahfuz","password":"secret123"}`
	resp := do(t, fiberApp, "POST", "/auth/register", body, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, fiberApp, "POST", "/auth/login",
		`{"email":"mahfuz@example.com","password":"secret123"}`, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	resp.Body.Close()
	require.NotEmpty(t, login.Data.Token)

	return fiberApp, uow, login.Data.Token
}

func do(t *testing.T, fiberApp *fiber.App, method, path, body, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := fiberApp.Test(req)
	require.NoError(t, err)
	return resp
}

func seedAccount(uow *servicetest.FakeUoW, balance string) int64 {
	return uow.SeedAccount(&ledger.Account{
		UserID: 1, Name: "Shinhan", Currency: currency.KRW,
		Kind: ledger.KindBank, StoredBalance: dec(balance), IsActive: true,
	})
}

func decodeTxn(t *testing.T, body io.Reader) transaction.TransactionResponse {
	t.Helper()
	var env struct {
		Data transaction.TransactionResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&env))
	return env.Data
}

func TestCreateEndpoint(t *testing.T) {
	fiberApp, uow, token := setup(t)
	accID := seedAccount(uow, "100000")

	t.Run("creates and debits", func(t *testing.T) {
		body := fmt.Sprintf(
			`{"account_id":%d,"type":"expense","date":"2025-06-01","amount":"12000","note":"lunch"}`, accID)
		resp := do(t, fiberApp, "POST", "/transactions", body, token)
		defer resp.Body.Close()
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		got := decodeTxn(t, resp.Body)
		assert.True(t, got.Amount.Equal(dec("-12000")))
		assert.Equal(t, "2025-06-01", got.Date)
		assert.True(t, uow.Account(accID).StoredBalance.Equal(dec("88000")))
	})

	t.Run("missing token rejected", func(t *testing.T) {
		resp := do(t, fiberApp, "POST", "/transactions", `{}`, "")
		resp.Body.Close()
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "missing JWT is a malformed request")
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		resp := do(t, fiberApp, "POST", "/transactions", `{}`, "not.a.token")
		resp.Body.Close()
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("overdraft reported as unprocessable", func(t *testing.T) {
		body := fmt.Sprintf(
			`{"account_id":%d,"type":"expense","date":"2025-06-01","amount":"99999999"}`, accID)
		resp := do(t, fiberApp, "POST", "/transactions", body, token)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "application/problem+json", resp.Header.Get(fiber.HeaderContentType))
	})

	t.Run("unknown type rejected by validation", func(t *testing.T) {
		body := fmt.Sprintf(
			`{"account_id":%d,"type":"loan","date":"2025-06-01","amount":"10"}`, accID)
		resp := do(t, fiberApp, "POST", "/transactions", body, token)
		resp.Body.Close()
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestLifecycleEndpoints(t *testing.T) {
	fiberApp, uow, token := setup(t)
	accID := seedAccount(uow, "100000")

	body := fmt.Sprintf(
		`{"account_id":%d,"type":"expense","date":"2025-06-01","amount":"40000"}`, accID)
	resp := do(t, fiberApp, "POST", "/transactions", body, token)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decodeTxn(t, resp.Body)
	resp.Body.Close()

	t.Run("edit adjusts the balance by the diff", func(t *testing.T) {
		resp := do(t, fiberApp, "PUT",
			fmt.Sprintf("/transactions/krw/%d", created.ID), `{"amount":"-50000"}`, token)
		defer resp.Body.Close()
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.True(t, uow.Account(accID).StoredBalance.Equal(dec("50000")))
	})

	t.Run("delete reverses, restore re-applies", func(t *testing.T) {
		resp := do(t, fiberApp, "POST",
			fmt.Sprintf("/transactions/krw/%d/delete", created.ID), "", token)
		resp.Body.Close()
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.True(t, uow.Account(accID).StoredBalance.Equal(dec("100000")))

		resp = do(t, fiberApp, "POST",
			fmt.Sprintf("/transactions/krw/%d/restore", created.ID), "", token)
		resp.Body.Close()
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.True(t, uow.Account(accID).StoredBalance.Equal(dec("50000")))
	})

	t.Run("list returns the row", func(t *testing.T) {
		resp := do(t, fiberApp, "GET", "/transactions/krw", "", token)
		defer resp.Body.Close()
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var env struct {
			Data []transaction.TransactionResponse `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		require.Len(t, env.Data, 1)
		assert.Equal(t, created.ID, env.Data[0].ID)
	})

	t.Run("unknown currency segment rejected", func(t *testing.T) {
		resp := do(t, fiberApp, "GET", "/transactions/usd", "", token)
		resp.Body.Close()
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		resp := do(t, fiberApp, "POST", "/transactions/krw/99999/delete", "", token)
		resp.Body.Close()
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
