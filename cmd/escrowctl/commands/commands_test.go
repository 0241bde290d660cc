package commands

import (
	"bytes"
	"encoding/json"
	"marketplace_escrow/internal/adapter/http/dto/response"
	"marketplace_escrow/internal/domain/pricing"
	"marketplace_escrow/internal/usecase"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func useSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "escrow.db"))
	t.Setenv("PAYMENT_GATEWAY_MOCK", "true")
	t.Setenv("KAFKA_BROKERS", "")
}

func TestQuoteCmd(t *testing.T) {
	out, err := run(t, "quote", "--service-type", "area_cleaning", "--square-meters", "50", "--add-on", "deep_clean")
	require.NoError(t, err)

	var got response.QuoteResponse
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	m := decimal.RequireFromString("50")
	want, err := pricing.NewEngine(pricing.DefaultCatalog()).ComputeQuote(pricing.AreaCleaningInput{SquareMeters: &m, AddOns: []string{"deep_clean"}})
	require.NoError(t, err)
	assert.Equal(t, "area_cleaning", got.ServiceCategory)
	assert.Equal(t, response.FromQuote(want).Total, got.Total)
}

func TestQuoteCmd_Errors(t *testing.T) {
	_, err := run(t, "quote")
	assert.Error(t, err, "service type is required")

	_, err = run(t, "quote", "--service-type", "gardening")
	assert.Error(t, err)

	_, err = run(t, "quote", "--service-type", "area_cleaning", "--square-meters", "lots")
	assert.Error(t, err)
}

func TestStoreCommands(t *testing.T) {
	useSQLite(t)

	out, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite store is up to date")

	out, err = run(t, "statement", "--account", "client-1", "--from", "2026-01-01", "--to", "2026-12-31")
	require.NoError(t, err)
	assert.Equal(t, "date,description,amount,type,status,order_id", strings.TrimSpace(out))

	out, err = run(t, "verify-ledger", "--account", "client-1")
	require.NoError(t, err)
	var checks []usecase.LedgerCheck
	require.NoError(t, json.Unmarshal([]byte(out), &checks))
	require.Len(t, checks, 1)
	assert.True(t, checks[0].Consistent)
}

func TestStatementCmd_BadDate(t *testing.T) {
	useSQLite(t)
	_, err := run(t, "statement", "--account", "client-1", "--from", "01/02/2026")
	assert.Error(t, err)
}

func TestRelayCmd_NeedsBrokers(t *testing.T) {
	useSQLite(t)
	_, err := run(t, "relay")
	assert.ErrorContains(t, err, "KAFKA_BROKERS")
}
