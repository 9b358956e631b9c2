package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--url", srv.URL}, args...))

	err := cmd.Execute()

	return out.String(), err
}

func TestBuildRows(t *testing.T) {
	rows, err := buildRows([]string{"bank=1000"}, []string{"wallet=-20.50", "bank=5"}, []string{"card= 12 "})
	require.NoError(t, err)

	assert.Equal(t, map[string]map[string]string{
		"bank":   {"balance": "1000", "delta": "5"},
		"wallet": {"delta": "-20.50"},
		"card":   {"debt": "12"},
	}, rows)
}

func TestBuildRows_Errors(t *testing.T) {
	tests := []struct {
		name     string
		balances []string
		deltas   []string
	}{
		{name: "none"},
		{name: "missing separator", deltas: []string{"wallet"}},
		{name: "missing account", deltas: []string{"=5"}},
		{name: "duplicate", balances: []string{"bank=1", "bank=2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildRows(tt.balances, tt.deltas, nil)
			assert.Error(t, err)
		})
	}
}

func TestPrintJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printJSON(&out, []byte(`{"a":1}`)))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", out.String())

	out.Reset()
	require.NoError(t, printJSON(&out, []byte("not json")))
	assert.Equal(t, "not json", out.String())
}

func TestTxRecordCmd(t *testing.T) {
	var (
		gotBody map[string]any
		gotKey  string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/transactions", r.URL.Path)
		gotKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"tx-1"}`))
	}))
	defer srv.Close()

	out, err := execute(t, srv, "tx", "record", "--description", "groceries", "--delta", "wallet=-20.50", "--idempotency-key", "k1")
	require.NoError(t, err)

	assert.Contains(t, out, `"id": "tx-1"`)
	assert.Equal(t, "k1", gotKey)
	assert.Equal(t, "groceries", gotBody["description"])
	assert.Equal(t, map[string]any{"wallet": map[string]any{"delta": "-20.50"}}, gotBody["rows"])
}

func TestBalanceCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/accounts/acc-1/balance", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("window"))
		_, _ = w.Write([]byte(`{"account_id":"acc-1"}`))
	}))
	defer srv.Close()

	out, err := execute(t, srv, "balance", "acc-1", "--window", "5")
	require.NoError(t, err)
	assert.Contains(t, out, `"account_id": "acc-1"`)
}

func TestAccountsCreateCmd_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid account name"}`))
	}))
	defer srv.Close()

	_, err := execute(t, srv, "accounts", "create", "  ")

	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "invalid account name")
}

func TestLedgerConsistencyCmd(t *testing.T) {
	t.Run("passed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"consistent":true,"empty_transactions":0,"empty_rows":0}`))
		}))
		defer srv.Close()

		out, err := execute(t, srv, "ledger", "consistency")
		require.NoError(t, err)
		assert.Contains(t, out, "PASSED")
	})

	t.Run("failed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"consistent":false,"empty_transactions":2,"empty_rows":0}`))
		}))
		defer srv.Close()

		out, err := execute(t, srv, "ledger", "consistency")
		assert.EqualError(t, err, "ledger is inconsistent")
		assert.Contains(t, out, "Transactions without rows: 2")
	})
}
