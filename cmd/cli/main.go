package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// client talks to the homeledger HTTP API.
type client struct {
	baseURL string
	timeout time.Duration
}

// apiError is a non-2xx response from the API.
type apiError struct {
	StatusCode int
	Body       string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("request failed (status %d): %s", e.StatusCode, strings.TrimSpace(e.Body))
}

func (c *client) do(method, path string, body any, headers map[string]string) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, strings.TrimRight(c.baseURL, "/")+path, reader)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := (&http.Client{Timeout: c.timeout}).Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return data, resp.StatusCode, nil
}

// call performs a request and fails on any non-2xx status.
func (c *client) call(method, path string, body any, headers map[string]string) ([]byte, error) {
	data, status, err := c.do(method, path, body, headers)
	if err != nil {
		return nil, err
	}

	if status < 200 || status >= 300 {
		return nil, &apiError{StatusCode: status, Body: string(data)}
	}

	return data, nil
}

func newRootCmd() *cobra.Command {
	c := &client{}

	rootCmd := &cobra.Command{
		Use:           "homeledger-cli",
		Short:         "HomeLedger CLI tool",
		Long:          `A command line interface for recording and inspecting household ledger transactions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&c.baseURL, "url", "http://localhost:8080", "Base URL of the HomeLedger API")
	rootCmd.PersistentFlags().DurationVar(&c.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(accountsCmd(c), balanceCmd(c), txCmd(c), ledgerCmd(c))

	return rootCmd
}

func accountsCmd(c *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts with their balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("limit", fmt.Sprint(limit))
			q.Set("offset", fmt.Sprint(offset))

			data, err := c.call(http.MethodGet, "/api/v1/accounts?"+q.Encode(), nil, nil)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Maximum number of accounts")
	list.Flags().IntVar(&offset, "offset", 0, "Number of accounts to skip")

	var createdBy string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"name": args[0], "created_by": createdBy}

			data, err := c.call(http.MethodPost, "/api/v1/accounts", body, nil)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	create.Flags().StringVar(&createdBy, "created-by", "", "Who created the account")

	cmd.AddCommand(list, create)

	return cmd
}

func balanceCmd(c *client) *cobra.Command {
	var window int

	cmd := &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Reconstruct the balance and debt of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/balance"
			if window > 0 {
				path += "?window=" + fmt.Sprint(window)
			}

			data, err := c.call(http.MethodGet, path, nil, nil)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	cmd.Flags().IntVar(&window, "window", 0, "Number of recent rows to scan (server default when 0)")

	return cmd
}

func txCmd(c *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Transaction operations",
	}

	var (
		description    string
		balances       []string
		deltas         []string
		debts          []string
		idempotencyKey string
	)

	record := &cobra.Command{
		Use:   "record",
		Short: "Record a transaction across one or more accounts",
		Example: `  homeledger-cli tx record --description "groceries" --delta wallet=-20.50
  homeledger-cli tx record --description "payday" --balance bank=1000 --debt card=0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := buildRows(balances, deltas, debts)
			if err != nil {
				return err
			}

			var headers map[string]string
			if idempotencyKey != "" {
				headers = map[string]string{"Idempotency-Key": idempotencyKey}
			}

			body := map[string]any{"description": description, "rows": rows}

			data, err := c.call(http.MethodPost, "/api/v1/transactions", body, headers)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	record.Flags().StringVar(&description, "description", "", "Transaction description")
	record.Flags().StringArrayVar(&balances, "balance", nil, "Absolute balance as account=value (repeatable)")
	record.Flags().StringArrayVar(&deltas, "delta", nil, "Balance change as account=value (repeatable)")
	record.Flags().StringArrayVar(&debts, "debt", nil, "Outstanding debt as account=value (repeatable)")
	record.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")

	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("limit", fmt.Sprint(limit))
			q.Set("offset", fmt.Sprint(offset))

			data, err := c.call(http.MethodGet, "/api/v1/transactions?"+q.Encode(), nil, nil)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), data)
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Maximum number of transactions")
	list.Flags().IntVar(&offset, "offset", 0, "Number of transactions to skip")

	get := &cobra.Command{
		Use:   "get <transaction-id>",
		Short: "Show a transaction with its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.call(http.MethodGet, "/api/v1/transactions/"+url.PathEscape(args[0]), nil, nil)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), data)
		},
	}

	cmd.AddCommand(record, list, get)

	return cmd
}

func ledgerCmd(c *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistency := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, status, err := c.do(http.MethodGet, "/api/v1/ledger/consistency", nil, nil)
			if err != nil {
				return err
			}

			var report struct {
				Consistent        bool  `json:"consistent"`
				EmptyTransactions int64 `json:"empty_transactions"`
				EmptyRows         int64 `json:"empty_rows"`
			}

			if status != http.StatusOK && status != http.StatusConflict {
				return &apiError{StatusCode: status, Body: string(data)}
			}

			if err := json.Unmarshal(data, &report); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			out := cmd.OutOrStdout()
			if !report.Consistent {
				fmt.Fprintf(out, "Consistency check FAILED\n")
				fmt.Fprintf(out, "Transactions without rows: %d\n", report.EmptyTransactions)
				fmt.Fprintf(out, "Rows without values: %d\n", report.EmptyRows)
				return fmt.Errorf("ledger is inconsistent")
			}

			fmt.Fprintf(out, "Consistency check PASSED\n")

			return nil
		},
	}

	cmd.AddCommand(consistency)

	return cmd
}

// buildRows folds account=value flags into the rows object of a record
// request. Values are sent as strings so they are parsed server side.
func buildRows(balances, deltas, debts []string) (map[string]map[string]string, error) {
	rows := make(map[string]map[string]string)

	add := func(field string, pairs []string) error {
		for _, pair := range pairs {
			account, value, ok := strings.Cut(pair, "=")
			account = strings.TrimSpace(account)
			if !ok || account == "" {
				return fmt.Errorf("invalid --%s %q: want account=value", field, pair)
			}

			if rows[account] == nil {
				rows[account] = make(map[string]string)
			}
			if _, dup := rows[account][field]; dup {
				return fmt.Errorf("duplicate --%s for account %q", field, account)
			}

			rows[account][field] = strings.TrimSpace(value)
		}

		return nil
	}

	if err := add("balance", balances); err != nil {
		return nil, err
	}
	if err := add("delta", deltas); err != nil {
		return nil, err
	}
	if err := add("debt", debts); err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("at least one --balance, --delta or --debt is required")
	}

	return rows, nil
}

// printJSON re-indents a JSON response body.
func printJSON(w io.Writer, data []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		_, err = w.Write(data)
		return err
	}

	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)

	return err
}
