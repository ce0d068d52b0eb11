package ledger

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"attest-go/internal/attest"
)

// MemoryLedger is an in-memory ledger whose height only moves when told to.
// Useful for tests and local development. Safe for concurrent use.
type MemoryLedger struct {
	signer   *Signer
	clock    attest.Clock
	ids      attest.IDGenerator
	mu       sync.RWMutex
	height   *big.Int
	entities map[string]*Envelope
}

var _ attest.Ledger = (*MemoryLedger)(nil)

// NewMemoryLedger creates a memory ledger starting at height.
func NewMemoryLedger(signer *Signer, height uint64, clock attest.Clock, ids attest.IDGenerator) *MemoryLedger {
	return &MemoryLedger{
		signer:   signer,
		clock:    clock,
		ids:      ids,
		height:   new(big.Int).SetUint64(height),
		entities: make(map[string]*Envelope),
	}
}

func (m *MemoryLedger) CreateEntity(ctx context.Context, data []byte, btl uint64, annotations attest.Annotations) (*attest.Receipt, error) {
	if m.signer == nil {
		return nil, attest.NewError(attest.KindConfig, "create entity", "ledger private key is not configured", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, attest.NewError(attest.KindLedgerUnavailable, "create entity", "request cancelled", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	env, key, err := newEnvelope(m.signer, m.ids.New(), data, btl, annotations, m.height, m.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("building envelope: %w", err)
	}
	m.entities[key] = env

	expiration, _ := new(big.Int).SetString(env.ExpirationBlock, 10)
	return &attest.Receipt{EntityKey: key, ExpirationBlock: expiration}, nil
}

func (m *MemoryLedger) CurrentHeight(ctx context.Context) (*big.Int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return new(big.Int).Set(m.height), nil
}

func (m *MemoryLedger) GetEntity(ctx context.Context, key string) (*attest.LedgerEntity, error) {
	m.mu.RLock()
	env, ok := m.entities[key]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return env.Entity(key)
}

// SetHeight moves the ledger to height.
func (m *MemoryLedger) SetHeight(height uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.height.SetUint64(height)
}

// Advance moves the ledger forward by n blocks.
func (m *MemoryLedger) Advance(n uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.height.Add(m.height, new(big.Int).SetUint64(n))
}

// Len returns the number of stored entities.
func (m *MemoryLedger) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entities)
}
