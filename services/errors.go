package services

import "errors"

var (
	// ErrAccountNotFound means no linked bank account matches the external item id.
	// Not retriable: the caller gets a 404.
	ErrAccountNotFound = errors.New("bank account not found for item")

	// ErrUpstreamFetch wraps any failure talking to the aggregation provider. Retriable.
	ErrUpstreamFetch = errors.New("failed to fetch transactions from aggregator")

	// ErrLedgerConflict is returned by LedgerStore.Insert when the external
	// transaction id is already recorded. Ingestion treats it as "already processed".
	ErrLedgerConflict = errors.New("ledger entry already exists")

	// ErrPersistence wraps store failures during a batch. The batch is failed
	// and is safe to retry as a whole.
	ErrPersistence = errors.New("failed to persist ingestion batch")
)
