package attest

import (
	"context"
	"math/big"
	"time"
)

// StringAnnotation and NumericAnnotation are the queryable attributes
// attached to a ledger entity.
type StringAnnotation struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type NumericAnnotation struct {
	Key   string `json:"key"`
	Value uint64 `json:"value"`
}

// Annotations keeps insertion order so envelopes serialize deterministically.
type Annotations struct {
	Strings  []StringAnnotation  `json:"strings"`
	Numerics []NumericAnnotation `json:"numerics"`
}

// String returns the value of the string annotation key, or "".
func (a Annotations) String(key string) string {
	for _, s := range a.Strings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// LedgerEntity is an entity as read back from the ledger.
type LedgerEntity struct {
	Key             string
	Data            []byte
	Annotations     Annotations
	CreatedAtBlock  *big.Int
	ExpirationBlock *big.Int
	CreatedAt       time.Time
	Signer          string
}

// Ledger is an append-only key-value store whose entries expire after a
// number of blocks. Keys are assigned by the ledger and commit to the content.
type Ledger interface {
	// CreateEntity stores data for btl blocks and returns its key and the
	// height at which it expires.
	CreateEntity(ctx context.Context, data []byte, btl uint64, annotations Annotations) (*Receipt, error)

	// CurrentHeight returns the ledger's current block height.
	CurrentHeight(ctx context.Context) (*big.Int, error)

	// GetEntity returns the entity stored under key, or nil if none exists.
	GetEntity(ctx context.Context, key string) (*LedgerEntity, error)
}
