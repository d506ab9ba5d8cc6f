package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const transactionsFixture = `{
  "transactions": [
    {
      "transaction_id": "tx-1",
      "account_id": "acc-1",
      "amount": -100,
      "date": "2024-03-10",
      "name": "PAYROLL",
      "merchant_name": null,
      "category": ["Transfer", "Payroll"],
      "pending": false
    },
    {
      "transaction_id": "tx-2",
      "account_id": "acc-1",
      "amount": 15.25,
      "date": "2024-03-11",
      "name": "COFFEE 42",
      "merchant_name": "Coffee",
      "category": ["Food and Drink"],
      "pending": true
    }
  ],
  "total_transactions": 2,
  "request_id": "req-1"
}`

func TestPlaidClientFetchTransactions(t *testing.T) {
	var got transactionsGetRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transactions/get" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(transactionsFixture))
	}))
	defer srv.Close()

	client := NewPlaidClient(srv.URL+"/", "client-id", "secret", time.Second)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	txs, err := client.FetchTransactions(context.Background(), "access-token", start, end, 50)
	if err != nil {
		t.Fatalf("FetchTransactions: %v", err)
	}

	if got.ClientID != "client-id" || got.Secret != "secret" || got.AccessToken != "access-token" {
		t.Errorf("credentials = %+v", got)
	}
	if got.StartDate != "2024-03-01" || got.EndDate != "2024-03-31" {
		t.Errorf("dates = %s..%s", got.StartDate, got.EndDate)
	}
	if got.Options.Count != 50 {
		t.Errorf("count = %d, want 50", got.Options.Count)
	}

	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].MerchantName != nil {
		t.Errorf("merchant_name null decoded as %q", *txs[0].MerchantName)
	}
	if txs[0].Amount.String() != "-100" {
		t.Errorf("amount = %s, want -100", txs[0].Amount)
	}
	if txs[1].MerchantName == nil || *txs[1].MerchantName != "Coffee" {
		t.Errorf("merchant = %v", txs[1].MerchantName)
	}
	if txs[1].Amount.String() != "15.25" || !txs[1].Pending {
		t.Errorf("tx-2 = %+v", txs[1])
	}
	if txs[1].OccurredOn().Format("2006-01-02") != "2024-03-11" {
		t.Errorf("OccurredOn = %v", txs[1].OccurredOn())
	}
}

func TestPlaidClientErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		contains string
	}{
		{
			name:     "provider error body",
			status:   http.StatusBadRequest,
			body:     `{"error_type":"ITEM_ERROR","error_code":"ITEM_LOGIN_REQUIRED","error_message":"login required"}`,
			contains: "ITEM_LOGIN_REQUIRED",
		},
		{
			name:     "opaque error body",
			status:   http.StatusBadGateway,
			body:     `upstream down`,
			contains: "status 502",
		},
		{
			name:     "malformed success body",
			status:   http.StatusOK,
			body:     `{"transactions": [`,
			contains: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewPlaidClient(srv.URL, "id", "secret", time.Second)
			_, err := client.FetchTransactions(context.Background(), "tok", time.Now(), time.Now(), 10)
			if !errors.Is(err, ErrUpstreamFetch) {
				t.Fatalf("err = %v, want ErrUpstreamFetch", err)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("err = %q, want it to mention %q", err, tt.contains)
			}
		})
	}
}

func TestPlaidClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewPlaidClient(url, "id", "secret", time.Second)
	_, err := client.FetchTransactions(context.Background(), "tok", time.Now(), time.Now(), 10)
	if !errors.Is(err, ErrUpstreamFetch) {
		t.Fatalf("err = %v, want ErrUpstreamFetch", err)
	}
}
