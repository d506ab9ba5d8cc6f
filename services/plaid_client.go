package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	transactionsGetPath = "/transactions/get"
	providerDateLayout  = "2006-01-02"
)

// TransactionFetcher fetches raw transactions for one linked bank connection.
type TransactionFetcher interface {
	FetchTransactions(ctx context.Context, accessToken string, start, end time.Time, count int) ([]RawTransaction, error)
}

// RawTransaction is a transaction as returned by the aggregation provider.
// MerchantName is absent for many transfers and deposits.
type RawTransaction struct {
	TransactionID string          `json:"transaction_id"`
	AccountID     string          `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Name          string          `json:"name"`
	MerchantName  *string         `json:"merchant_name"`
	Category      []string        `json:"category"`
	Pending       bool            `json:"pending"`
}

// OccurredOn parses the provider date (YYYY-MM-DD). An unparseable date yields the zero time.
func (t RawTransaction) OccurredOn() time.Time {
	d, err := time.Parse(providerDateLayout, strings.TrimSpace(t.Date))
	if err != nil {
		return time.Time{}
	}
	return d
}

// PlaidClient talks to the aggregator's transactions API.
type PlaidClient struct {
	BaseURL    string
	ClientID   string
	Secret     string
	HTTPClient *http.Client
}

var _ TransactionFetcher = (*PlaidClient)(nil)

func NewPlaidClient(baseURL, clientID, secret string, timeout time.Duration) *PlaidClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PlaidClient{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		ClientID: clientID,
		Secret:   secret,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type transactionsGetOptions struct {
	Count int `json:"count"`
}

type transactionsGetRequest struct {
	ClientID    string                 `json:"client_id"`
	Secret      string                 `json:"secret"`
	AccessToken string                 `json:"access_token"`
	StartDate   string                 `json:"start_date"`
	EndDate     string                 `json:"end_date"`
	Options     transactionsGetOptions `json:"options"`
}

type transactionsGetResponse struct {
	Transactions      []RawTransaction `json:"transactions"`
	TotalTransactions int              `json:"total_transactions"`
	RequestID         string           `json:"request_id"`
}

// providerError is the error body the aggregator returns on non-200 responses.
type providerError struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// FetchTransactions returns up to count transactions dated between start and end (inclusive).
// Every failure wraps ErrUpstreamFetch.
func (c *PlaidClient) FetchTransactions(ctx context.Context, accessToken string, start, end time.Time, count int) ([]RawTransaction, error) {
	payload, err := json.Marshal(transactionsGetRequest{
		ClientID:    c.ClientID,
		Secret:      c.Secret,
		AccessToken: accessToken,
		StartDate:   start.Format(providerDateLayout),
		EndDate:     end.Format(providerDateLayout),
		Options:     transactionsGetOptions{Count: count},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrUpstreamFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+transactionsGetPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrUpstreamFetch, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUpstreamFetch, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var perr providerError
		if err := json.Unmarshal(body, &perr); err != nil || perr.ErrorCode == "" {
			return nil, fmt.Errorf("%w: status %d: %s", ErrUpstreamFetch, resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%w: status %d: %s - %s", ErrUpstreamFetch, resp.StatusCode, perr.ErrorCode, perr.ErrorMessage)
	}

	var out transactionsGetResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrUpstreamFetch, err)
	}
	return out.Transactions, nil
}
