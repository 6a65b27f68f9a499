package store

import (
	"context"
	"errors"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrMissingRecordID   = errors.New("record has no id")
	ErrUnknownCollection = errors.New("unknown collection")
)

// Collection keys understood by every backend and by the durable cache.
const (
	KeyRates        = "rates"
	KeyMetals       = "metals"
	KeyCrypto       = "crypto"
	KeyNews         = "news"
	KeyUsers        = "users"
	KeyTransactions = "transactions"
	KeyProducts     = "products"
	KeyCategories   = "categories"
	KeyConfig       = "config"
)

// CollectionKeys lists every syncable collection, config last (single-row).
var CollectionKeys = []string{
	KeyRates, KeyMetals, KeyCrypto, KeyNews,
	KeyUsers, KeyTransactions, KeyProducts, KeyCategories, KeyConfig,
}

// Entity is satisfied by every synced record type. Equal must be a deep,
// field-by-value comparison (decimals by value, times by instant).
type Entity[T any] interface {
	RecordID() string
	Equal(other T) bool
}

// Table defines the per-collection contract that every remote backend must
// satisfy: select-all, bulk insert-or-replace-by-id, delete-by-id, and an
// optional change-notification channel.
type Table[T any] interface {
	SelectAll(ctx context.Context) ([]T, error)
	Upsert(ctx context.Context, rows []T) error
	Delete(ctx context.Context, id string) error

	// Subscribe opens a change-notification channel for the collection.
	// onChange fires on any remote insert/update/delete, regardless of row.
	// The returned cancel function releases the channel and is safe to call
	// more than once. Backends without realtime support return an error;
	// callers fall back to polling.
	Subscribe(ctx context.Context, onChange func()) (cancel func(), err error)
}

// ConnStatus is the tri-state connectivity flag. It is set once at bootstrap
// and never re-derived from later failures; purely informational.
type ConnStatus string

const (
	ConnUnknown      ConnStatus = "unknown"
	ConnConnected    ConnStatus = "connected"
	ConnDisconnected ConnStatus = "disconnected"
)
